// Package plugins hosts user scripts that rewrite news text before it is stored.
package plugins

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/phuslu/log"
	lua "github.com/yuin/gopher-lua"
)

// Normalizer rewrites a news abstract
type Normalizer interface {
	Normalize(text string) (string, error)
}

// LuaMetadata is read from the leading comment block of a script
type LuaMetadata struct {
	Name        string
	Version     string
	Description string
}

// LuaNormalizer runs the normalize(text) function of a Lua script
type LuaNormalizer struct {
	mu       sync.Mutex
	vm       *lua.LState
	metadata LuaMetadata
}

// NewLuaNormalizer loads a normalizer script from path
func NewLuaNormalizer(path string) (*LuaNormalizer, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return NewLuaNormalizerFromString(filepath.Base(path), string(content))
}

// NewLuaNormalizerFromString loads a normalizer from script source
func NewLuaNormalizerFromString(name, source string) (*LuaNormalizer, error) {
	ln := &LuaNormalizer{metadata: extractLuaMetadata(name, source)}

	vm := lua.NewState()
	ln.registerAPI(vm)

	if err := vm.DoString(source); err != nil {
		vm.Close()
		return nil, fmt.Errorf("failed to load script %s: %w", name, err)
	}
	if vm.GetGlobal("normalize").Type() != lua.LTFunction {
		vm.Close()
		return nil, fmt.Errorf("script %s does not define normalize(text)", name)
	}

	ln.vm = vm
	return ln, nil
}

// extractLuaMetadata parses -- @name, -- @version and -- @description comments
func extractLuaMetadata(name, source string) LuaMetadata {
	metadata := LuaMetadata{
		Name:        name,
		Version:     "1.0.0",
		Description: "Lua normalizer",
	}

	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "--") {
			break // Stop at first non-comment line
		}
		comment := strings.TrimSpace(strings.TrimPrefix(line, "--"))

		switch {
		case strings.HasPrefix(comment, "@name"):
			metadata.Name = strings.TrimSpace(strings.TrimPrefix(comment, "@name"))
		case strings.HasPrefix(comment, "@version"):
			metadata.Version = strings.TrimSpace(strings.TrimPrefix(comment, "@version"))
		case strings.HasPrefix(comment, "@description"):
			metadata.Description = strings.TrimSpace(strings.TrimPrefix(comment, "@description"))
		}
	}
	return metadata
}

// Metadata returns the script metadata
func (ln *LuaNormalizer) Metadata() LuaMetadata {
	return ln.metadata
}

// Normalize calls normalize(text) and returns its string result
func (ln *LuaNormalizer) Normalize(text string) (string, error) {
	ln.mu.Lock()
	defer ln.mu.Unlock()

	if err := ln.vm.CallByParam(lua.P{
		Fn:      ln.vm.GetGlobal("normalize"),
		NRet:    1,
		Protect: true,
	}, lua.LString(text)); err != nil {
		return "", fmt.Errorf("%s: normalize failed: %w", ln.metadata.Name, err)
	}

	ret := ln.vm.Get(-1)
	ln.vm.Pop(1)

	str, ok := ret.(lua.LString)
	if !ok {
		return "", fmt.Errorf("%s: normalize must return a string, got %s", ln.metadata.Name, ret.Type())
	}
	return string(str), nil
}

// Close releases the Lua VM
func (ln *LuaNormalizer) Close() {
	ln.mu.Lock()
	defer ln.mu.Unlock()
	ln.vm.Close()
}

// registerAPI exposes helper functions in the mbayes global table
func (ln *LuaNormalizer) registerAPI(vm *lua.LState) {
	table := vm.NewTable()
	vm.SetGlobal("mbayes", table)

	vm.SetField(table, "log", vm.NewFunction(ln.luaLog))
	vm.SetField(table, "contains", vm.NewFunction(luaContains))
	vm.SetField(table, "strip_brackets", vm.NewFunction(luaStripBrackets))
}

func (ln *LuaNormalizer) luaLog(vm *lua.LState) int {
	log.Info().Str("script", ln.metadata.Name).Msg(vm.CheckString(1))
	return 0
}

func luaContains(vm *lua.LState) int {
	haystack := vm.CheckString(1)
	needle := vm.CheckString(2)
	vm.Push(lua.LBool(strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))))
	return 1
}

func luaStripBrackets(vm *lua.LState) int {
	vm.Push(lua.LString(StripBrackets(vm.CheckString(1))))
	return 1
}

// StripBrackets removes every [...] span, such as citation markers. An
// unmatched [ is kept with the rest of the text.
func StripBrackets(text string) string {
	for {
		start := strings.Index(text, "[")
		if start < 0 {
			return text
		}
		end := strings.Index(text[start:], "]")
		if end < 0 {
			return text
		}
		text = text[:start] + text[start+end+1:]
	}
}
