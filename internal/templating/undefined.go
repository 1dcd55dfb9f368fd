package templating

import (
	"fmt"
	"strconv"
	"strings"
	"text/template/parse"
)

// Undefined stands for a field a template references but the current record
// lacks. Templates only ever see a nil *Undefined.
type Undefined struct{}

// guardFuncName is the helper inserted around printed fields.
const guardFuncName = "_requireDefined"

// requireDefined passes v through unless it is the undefined sentinel.
func requireDefined(ref string, v any) (any, error) {
	if _, ok := v.(*Undefined); ok {
		return nil, fmt.Errorf("%w: %s", ErrUndefined, ref)
	}
	return v, nil
}

// collectRefs records the top-level field names a template reads: .name
// where dot is the record, and $.name anywhere. Dot is not the record inside
// range and with bodies.
func collectRefs(n parse.Node, dotIsRecord bool, refs map[string]struct{}) {
	switch n := n.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, c := range n.Nodes {
			collectRefs(c, dotIsRecord, refs)
		}
	case *parse.ActionNode:
		collectPipeRefs(n.Pipe, dotIsRecord, refs)
	case *parse.IfNode:
		collectPipeRefs(n.Pipe, dotIsRecord, refs)
		collectRefs(n.List, dotIsRecord, refs)
		collectRefs(n.ElseList, dotIsRecord, refs)
	case *parse.RangeNode:
		collectPipeRefs(n.Pipe, dotIsRecord, refs)
		collectRefs(n.List, false, refs)
		collectRefs(n.ElseList, dotIsRecord, refs)
	case *parse.WithNode:
		collectPipeRefs(n.Pipe, dotIsRecord, refs)
		collectRefs(n.List, false, refs)
		collectRefs(n.ElseList, dotIsRecord, refs)
	case *parse.TemplateNode:
		collectPipeRefs(n.Pipe, dotIsRecord, refs)
	}
}

func collectPipeRefs(p *parse.PipeNode, dotIsRecord bool, refs map[string]struct{}) {
	if p == nil {
		return
	}
	for _, cmd := range p.Cmds {
		if ref, ok := indexRef(cmd, dotIsRecord); ok {
			refs[ref] = struct{}{}
		}
		for _, arg := range cmd.Args {
			collectArgRefs(arg, dotIsRecord, refs)
		}
	}
}

func collectArgRefs(arg parse.Node, dotIsRecord bool, refs map[string]struct{}) {
	switch a := arg.(type) {
	case *parse.FieldNode:
		if dotIsRecord {
			refs[a.Ident[0]] = struct{}{}
		}
	case *parse.VariableNode:
		if len(a.Ident) > 1 && a.Ident[0] == "$" {
			refs[a.Ident[1]] = struct{}{}
		}
	case *parse.ChainNode:
		collectArgRefs(a.Node, dotIsRecord, refs)
	case *parse.PipeNode:
		collectPipeRefs(a, dotIsRecord, refs)
	}
}

// indexRef returns the key of {{index . "name"}} or {{index $ "name"}},
// which read a record field like .name does.
func indexRef(cmd *parse.CommandNode, dotIsRecord bool) (string, bool) {
	if name, ok := funcName(cmd); !ok || name != "index" || len(cmd.Args) != 3 {
		return "", false
	}
	key, ok := cmd.Args[2].(*parse.StringNode)
	if !ok {
		return "", false
	}
	switch target := cmd.Args[1].(type) {
	case *parse.DotNode:
		return key.Text, dotIsRecord
	case *parse.VariableNode:
		return key.Text, len(target.Ident) == 1 && target.Ident[0] == "$"
	}
	return "", false
}

func funcName(cmd *parse.CommandNode) (string, bool) {
	if len(cmd.Args) == 0 {
		return "", false
	}
	id, ok := cmd.Args[0].(*parse.IdentifierNode)
	if !ok {
		return "", false
	}
	return id.Ident, true
}

// collectCalls records the names of templates invoked with {{template}}.
func collectCalls(n parse.Node, names map[string]struct{}) {
	switch n := n.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, c := range n.Nodes {
			collectCalls(c, names)
		}
	case *parse.IfNode:
		collectCalls(n.List, names)
		collectCalls(n.ElseList, names)
	case *parse.RangeNode:
		collectCalls(n.List, names)
		collectCalls(n.ElseList, names)
	case *parse.WithNode:
		collectCalls(n.List, names)
		collectCalls(n.ElseList, names)
	case *parse.TemplateNode:
		names[n.Name] = struct{}{}
	}
}

// guardPrints rewrites every printing action so that field, variable and dot
// arguments pass through requireDefined first:
//
//	{{.name}}  ->  {{(.name | _requireDefined "name")}}
//
// Arguments of lazy functions are left as they are; the result of those that
// may hand back their argument is checked instead:
//
//	{{index . "name"}}  ->  {{index . "name" | _requireDefined "name"}}
//
// Actions that only declare variables print nothing and are left alone.
func guardPrints(n parse.Node) {
	switch n := n.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, c := range n.Nodes {
			guardPrints(c)
		}
	case *parse.ActionNode:
		if len(n.Pipe.Decl) == 0 {
			guardPipe(n.Pipe)
		}
	case *parse.IfNode:
		guardPrints(n.List)
		guardPrints(n.ElseList)
	case *parse.RangeNode:
		guardPrints(n.List)
		guardPrints(n.ElseList)
	case *parse.WithNode:
		guardPrints(n.List)
		guardPrints(n.ElseList)
	}
}

// lazyFuncs accept an undefined argument without failing: it is falsy for
// and, or and not, unequal to any defined value for eq and ne, and an
// undefined result for index.
var lazyFuncs = map[string]bool{
	"and":   true,
	"or":    true,
	"not":   true,
	"eq":    true,
	"ne":    true,
	"index": true,
}

// passThroughFuncs may return an undefined value unchanged.
var passThroughFuncs = map[string]bool{
	"and":   true,
	"or":    true,
	"index": true,
}

func guardPipe(p *parse.PipeNode) {
	cmds := make([]*parse.CommandNode, 0, len(p.Cmds))
	for ci, cmd := range p.Cmds {
		cmds = append(cmds, cmd)
		if name, ok := funcName(cmd); ok && lazyFuncs[name] {
			if passThroughFuncs[name] {
				cmds = append(cmds, guardCmd(cmd.Position(), resultRef(name, cmd)))
			}
			continue
		}
		for ai, arg := range cmd.Args {
			// A field in function position is called, not read.
			if ai == 0 && (ci > 0 || len(cmd.Args) > 1) {
				continue
			}
			switch a := arg.(type) {
			case *parse.FieldNode, *parse.VariableNode, *parse.DotNode:
				cmd.Args[ai] = guardArg(a)
			case *parse.PipeNode:
				guardPipe(a)
			}
		}
	}
	p.Cmds = cmds
}

// resultRef names the value a lazy call produced in error messages: the key
// of a literal index, else the call itself.
func resultRef(name string, cmd *parse.CommandNode) string {
	if name == "index" {
		if key, ok := cmd.Args[len(cmd.Args)-1].(*parse.StringNode); ok && len(cmd.Args) > 2 {
			return key.Text
		}
	}
	return cmd.String()
}

// guardArg builds the parenthesized pipeline (arg | _requireDefined "ref"),
// constructing nodes the way html/template builds its escaper commands.
func guardArg(arg parse.Node) parse.Node {
	pos := arg.Position()
	ref := arg.String()
	if !strings.HasPrefix(ref, "$") || strings.HasPrefix(ref, "$.") {
		ref = strings.TrimPrefix(strings.TrimPrefix(ref, "$"), ".")
	}
	if ref == "" {
		ref = "."
	}

	value := &parse.CommandNode{
		NodeType: parse.NodeCommand,
		Pos:      pos,
		Args:     []parse.Node{arg},
	}
	return &parse.PipeNode{
		NodeType: parse.NodePipe,
		Pos:      pos,
		Cmds:     []*parse.CommandNode{value, guardCmd(pos, ref)},
	}
}

// guardCmd builds the command _requireDefined "ref".
func guardCmd(pos parse.Pos, ref string) *parse.CommandNode {
	return &parse.CommandNode{
		NodeType: parse.NodeCommand,
		Pos:      pos,
		Args: []parse.Node{
			parse.NewIdentifier(guardFuncName).SetTree(nil).SetPos(pos),
			&parse.StringNode{NodeType: parse.NodeString, Pos: pos, Quoted: strconv.Quote(ref), Text: ref},
		},
	}
}
