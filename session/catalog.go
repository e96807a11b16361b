package session

import "github.com/OutfinityResearch/AGISystem2-sub015/pkg/vocab"

// operatorDecl is one statically-declared catalog entry: a relation name,
// its expected arity, and its semantic tags (§6 "Core operator catalog").
type operatorDecl struct {
	Name  string
	Flags vocab.Flags
}

// theoryDrivenPack is the operator catalog preloaded under the
// "TheoryDriven" reasoning profile: the property-carrying relations §4.8
// aggregates over, plus the transitive/symmetric relations the example
// scenarios and tests exercise.
var theoryDrivenPack = []operatorDecl{
	{"isA", vocab.Flags{Transitive: true, Arity: 2}},
	{"causes", vocab.Flags{Transitive: true, Arity: 2}},
	{"partOf", vocab.Flags{Transitive: true, Arity: 2}},
	{"has", vocab.Flags{Arity: 2}},
	{"can", vocab.Flags{Arity: 2}},
	{"likes", vocab.Flags{Arity: 2}},
	{"knows", vocab.Flags{Symmetric: true, Arity: 2}},
	{"owns", vocab.Flags{Arity: 2}},
	{"uses", vocab.Flags{Arity: 2}},
	{"relatedTo", vocab.Flags{Symmetric: true, Reflexive: true, Arity: 2}},
}

// minimalPack declares only the relations the core itself assumes exist
// (the transitive isA backbone used by typed-leaf matching's fallback).
var minimalPack = []operatorDecl{
	{"isA", vocab.Flags{Transitive: true, Arity: 2}},
}

func operatorPackFor(profile string) []operatorDecl {
	switch profile {
	case ProfileMinimal:
		return minimalPack
	default:
		return theoryDrivenPack
	}
}

func preloadOperatorPack(voc *vocab.Vocabulary, profile string) error {
	for _, decl := range operatorPackFor(profile) {
		if err := voc.DeclareOperator(decl.Name, decl.Flags); err != nil {
			return err
		}
	}
	return nil
}
