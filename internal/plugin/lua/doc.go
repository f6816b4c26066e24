// Package lua runs drop-target filter scripts.
//
// A filter script defines a global accept function. It is called for every
// candidate drop target with a table describing the target and the dragged
// content, and vetoes the drop by returning false or nil:
//
//	function accept(t)
//	    -- t.id, t.flavour, t.parent, t.text, t.mode, t.doc, t.units
//	    return t.flavour ~= "code"
//	end
//
// # State
//
// State wraps a gopher-lua runtime with only the base, table, string and
// math libraries open. Loading globals (dofile, load, require and friends)
// are removed.
// Every call runs under an execution timeout:
//
//	state, err := lua.NewState(lua.WithExecutionTimeout(50 * time.Millisecond))
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
// # Filter
//
// Filter adapts a script to target.Filter:
//
//	f, err := lua.LoadFilter("filters/no-code.lua")
//	resolver := target.New(doc, registry, layout, target.WithFilter(f))
//
// A script that fails at call time accepts the target; the failure is
// logged and the built-in rules still apply.
package lua
