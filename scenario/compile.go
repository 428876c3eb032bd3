// Package scenario runs Lua scripts that drive a simulated player while a
// tracker observes it.
package scenario

import (
	"io"
	"sync"

	"github.com/vidtrack/vidtrack/filesystem"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

var bytecodeCache sync.Map

// compileFile returns the compiled prototype of the script at path, reusing
// an earlier compilation of the same path.
func compileFile(path string) (*lua.FunctionProto, error) {
	if cached, ok := bytecodeCache.Load(path); ok {
		return cached.(*lua.FunctionProto), nil
	}

	file, err := filesystem.API().Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	proto, err := compile(path, file)
	if err != nil {
		return nil, err
	}

	bytecodeCache.Store(path, proto)
	return proto, nil
}

func compile(name string, r io.Reader) (*lua.FunctionProto, error) {
	chunk, err := parse.Parse(r, name)
	if err != nil {
		return nil, err
	}
	return lua.Compile(chunk, name)
}

// execute runs proto as the main chunk of L.
func execute(L *lua.LState, proto *lua.FunctionProto) error {
	L.Push(L.NewFunctionFromProto(proto))
	return L.PCall(0, lua.MultRet, nil)
}
