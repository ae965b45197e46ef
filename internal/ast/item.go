package ast

import (
	"rym/internal/source"
)

type ItemKind uint8

const (
	ItemModule ItemKind = iota
	ItemFunc
	ItemBinding
)

func (k ItemKind) String() string {
	switch k {
	case ItemModule:
		return "Module"
	case ItemFunc:
		return "Func"
	case ItemBinding:
		return "Binding"
	}
	return "Item(?)"
}

type Item struct {
	Kind     ItemKind
	Span     source.Span
	Name     source.StringID
	NameSpan source.Span
	Payload  PayloadID
}

// ModuleItem: `mod name { stmts }`.
type ModuleItem struct {
	Stmts []StmtID
}

type Param struct {
	Name source.StringID
	Span source.Span
}

// FuncItem: `fn name(params) body`; тело - любое выражение, обычно блок.
type FuncItem struct {
	Params []Param
	Body   ExprID
}

// BindingItem: `const name = value` или `mut name = value`.
type BindingItem struct {
	Mutable bool
	Value   ExprID
}

type Items struct {
	Arena    *Arena[Item]
	Modules  *Arena[ModuleItem]
	Funcs    *Arena[FuncItem]
	Bindings *Arena[BindingItem]
}

// NewItems creates and returns an *Items with per-kind arenas initialized to capHint.
func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Items{
		Arena:    NewArena[Item](capHint),
		Modules:  NewArena[ModuleItem](max(capHint/8, 1)),
		Funcs:    NewArena[FuncItem](capHint),
		Bindings: NewArena[BindingItem](capHint),
	}
}

func (i *Items) new(kind ItemKind, span source.Span, name source.StringID, nameSpan source.Span, payload uint32) ItemID {
	return ItemID(i.Arena.Allocate(Item{
		Kind:     kind,
		Span:     span,
		Name:     name,
		NameSpan: nameSpan,
		Payload:  PayloadID(payload),
	}))
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

func (i *Items) NewModule(span source.Span, name source.StringID, nameSpan source.Span, stmts []StmtID) ItemID {
	return i.new(ItemModule, span, name, nameSpan, i.Modules.Allocate(ModuleItem{Stmts: stmts}))
}

func (i *Items) Module(id ItemID) (*ModuleItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemModule {
		return nil, false
	}
	return i.Modules.Get(uint32(item.Payload)), true
}

func (i *Items) NewFunc(span source.Span, name source.StringID, nameSpan source.Span, params []Param, body ExprID) ItemID {
	return i.new(ItemFunc, span, name, nameSpan, i.Funcs.Allocate(FuncItem{Params: params, Body: body}))
}

func (i *Items) Func(id ItemID) (*FuncItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemFunc {
		return nil, false
	}
	return i.Funcs.Get(uint32(item.Payload)), true
}

func (i *Items) NewBinding(span source.Span, name source.StringID, nameSpan source.Span, mutable bool, value ExprID) ItemID {
	return i.new(ItemBinding, span, name, nameSpan, i.Bindings.Allocate(BindingItem{Mutable: mutable, Value: value}))
}

func (i *Items) Binding(id ItemID) (*BindingItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemBinding {
		return nil, false
	}
	return i.Bindings.Get(uint32(item.Payload)), true
}
