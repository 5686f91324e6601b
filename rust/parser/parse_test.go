package parser

import (
	"reflect"
	"strings"
	"testing"

	"github.com/Lucretiel/usefix/rust/ast"
)

func TestParseDecls(t *testing.T) {
	testCases := []struct {
		Name string
		Src  string
		Want []ast.Item
	}{
		{
			Name: "plain",
			Src:  `use std::fmt;`,
			Want: []ast.Item{
				{Path: []string{"std", "fmt"}},
			},
		},
		{
			Name: "rooted",
			Src:  `use ::serde::Serialize;`,
			Want: []ast.Item{
				{Rooted: true, Path: []string{"serde", "Serialize"}},
			},
		},
		{
			Name: "glob",
			Src:  `use std::collections::*;`,
			Want: []ast.Item{
				{Path: []string{"std", "collections"}, Leaf: ast.Leaf{Glob: true}},
			},
		},
		{
			Name: "rename",
			Src:  `use std::io::Result as IoResult;`,
			Want: []ast.Item{
				{Path: []string{"std", "io", "Result"}, Leaf: ast.Leaf{Alias: "IoResult"}},
			},
		},
		{
			Name: "renameUnderscore",
			Src:  `use rayon::prelude::ParallelIterator as _;`,
			Want: []ast.Item{
				{Path: []string{"rayon", "prelude", "ParallelIterator"}, Leaf: ast.Leaf{Alias: "_"}},
			},
		},
		{
			Name: "group",
			Src:  `use a::{b, c as d, e::*};`,
			Want: []ast.Item{
				{Path: []string{"a", "b"}},
				{Path: []string{"a", "c"}, Leaf: ast.Leaf{Alias: "d"}},
				{Path: []string{"a", "e"}, Leaf: ast.Leaf{Glob: true}},
			},
		},
		{
			Name: "groupWithSelf",
			Src:  `use a::{self, b};`,
			Want: []ast.Item{
				{Path: []string{"a"}},
				{Path: []string{"a", "b"}},
			},
		},
		{
			Name: "selfSuffix",
			Src:  `use a::b::self;`,
			Want: []ast.Item{
				{Path: []string{"a", "b"}},
			},
		},
		{
			Name: "nestedGroups",
			Src:  `use a::{b::{c, d}, e};`,
			Want: []ast.Item{
				{Path: []string{"a", "b", "c"}},
				{Path: []string{"a", "b", "d"}},
				{Path: []string{"a", "e"}},
			},
		},
		{
			Name: "emptyGroup",
			Src:  `use a::{};`,
			Want: nil,
		},
		{
			Name: "trailingComma",
			Src:  `use a::{b,};`,
			Want: []ast.Item{
				{Path: []string{"a", "b"}},
			},
		},
		{
			Name: "bareGroup",
			Src:  `use {a, b};`,
			Want: []ast.Item{
				{Path: []string{"a"}},
				{Path: []string{"b"}},
			},
		},
		{
			Name: "rootedGroup",
			Src:  `use ::{a};`,
			Want: []ast.Item{
				{Rooted: true, Path: []string{"a"}},
			},
		},
		{
			Name: "pathKeywords",
			Src: `use crate::foo;
use self::bar;
use super::baz;`,
			Want: []ast.Item{
				{Path: []string{"crate", "foo"}},
				{Path: []string{"self", "bar"}},
				{Path: []string{"super", "baz"}},
			},
		},
		{
			Name: "multipleDeclsShareRoot",
			Src: `use a::b;
use a::c;`,
			Want: []ast.Item{
				{Path: []string{"a", "b"}},
				{Path: []string{"a", "c"}},
			},
		},
		{
			Name: "duplicateCollapses",
			Src: `use a::b;
use a::b;`,
			Want: []ast.Item{
				{Path: []string{"a", "b"}},
			},
		},
		{
			Name: "distinctRenamesKept",
			Src: `use a::b as c;
use a::b as d;`,
			Want: []ast.Item{
				{Path: []string{"a", "b"}, Leaf: ast.Leaf{Alias: "c"}},
				{Path: []string{"a", "b"}, Leaf: ast.Leaf{Alias: "d"}},
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(subT *testing.T) {
			f, err := ParseDecls(testCase.Name, []byte(testCase.Src))
			if err != nil {
				subT.Fatal(err)
			}

			got := f.Flatten()
			if len(got) != len(testCase.Want) {
				subT.Fatalf("expected %d items but instead received %d: %#v", len(testCase.Want), len(got), got)
			}
			for i, item := range testCase.Want {
				if !reflect.DeepEqual(got[i], item) {
					subT.Fatalf("item %d: expected %#v but instead received: %#v", i, item, got[i])
				}
			}
		})
	}
}

func TestParseDeclsErrors(t *testing.T) {
	testCases := []struct {
		Name string
		Src  string
		Msg  string
	}{
		{
			Name: "missingSemi",
			Src:  `use a::b`,
			Msg:  "use declaration",
		},
		{
			Name: "notAUse",
			Src:  `fn main() {}`,
			Msg:  "expected a use declaration",
		},
		{
			Name: "globAtRoot",
			Src:  `use {*};`,
			Msg:  "cannot glob-import at the path root",
		},
		{
			Name: "starAsPath",
			Src:  `use *;`,
			Msg:  "import path",
		},
		{
			Name: "singleColon",
			Src:  `use a:b;`,
			Msg:  "expected '::', found single ':'",
		},
		{
			Name: "junkInGroup",
			Src:  `use a::{b c};`,
			Msg:  "brace group",
		},
		{
			Name: "renameOfKeyword",
			Src:  `use a::b as self;`,
			Msg:  "rename clause",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(subT *testing.T) {
			_, err := ParseDecls(testCase.Name, []byte(testCase.Src))
			if err == nil {
				subT.Fatal("expected an error")
			}

			perr, ok := err.(*Error)
			if !ok {
				subT.Fatalf("expected *parser.Error but instead received: %#v", err)
			}
			if perr.Name != testCase.Name || perr.Line == 0 {
				subT.Fatalf("error missing source position: %#v", perr)
			}
			if !strings.Contains(perr.Msg, testCase.Msg) {
				subT.Fatalf("expected message containing %q but instead received: %q", testCase.Msg, perr.Msg)
			}
		})
	}
}
