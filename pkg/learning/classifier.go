package learning

// Classifier assigns a class label to a piece of text
type Classifier interface {
	Classify(text string) (string, error)
	Classes() []string
}

// Ensure implementations satisfy the interface
var _ Classifier = (*NaiveBayes)(nil)
