// Copyright 2017 Cameron Bergoon
// https://github.com/cbergoon/merkletree
// Licensed under the MIT License, see LICENCE file for details.
// This code has been cleaned up, refactored, and turned into generics.

// Package merkle provides an implementation of a merkle tree used to commit
// to the full set of ledger records with a single root hash.
package merkle

import (
	"bytes"
	"errors"
	"hash"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrNotFound is returned when a value is not a leaf of the tree.
var ErrNotFound = errors.New("value not found in tree")

// Hashable represents the behavior concrete data must exhibit to be used in
// the merkle tree.
type Hashable[T any] interface {
	Hash() ([]byte, error)
	Equals(other T) bool
}

// Side identifies where a proof hash is concatenated.
type Side int64

// Set of sides for a proof hash.
const (
	Left  Side = 0
	Right Side = 1
)

// =============================================================================

// Tree represents a merkle tree that uses data of some type T that exhibits the
// behavior defined by the Hashable constraint.
type Tree[T Hashable[T]] struct {
	Root         *Node[T]
	Leafs        []*Node[T]
	MerkleRoot   []byte
	hashStrategy func() hash.Hash
}

// WithHashStrategy is used to change the default hash strategy of using
// keccak256 when constructing a new tree.
func WithHashStrategy[T Hashable[T]](hashStrategy func() hash.Hash) func(t *Tree[T]) {
	return func(t *Tree[T]) {
		t.hashStrategy = hashStrategy
	}
}

// NewTree constructs a new merkle tree that uses data of some type T that
// exhibits the behavior defined by the Hashable interface.
func NewTree[T Hashable[T]](values []T, options ...func(t *Tree[T])) (*Tree[T], error) {
	t := Tree[T]{
		hashStrategy: keccak,
	}

	for _, option := range options {
		option(&t)
	}

	if err := t.Generate(values); err != nil {
		return nil, err
	}

	return &t, nil
}

// Generate constructs the leafs and nodes of the tree from the specified
// data. If the tree has been generated previously, the tree is re-generated
// from scratch.
func (t *Tree[T]) Generate(values []T) error {
	if len(values) == 0 {
		return errors.New("cannot construct tree with no content")
	}

	leafs := make([]*Node[T], 0, len(values)+1)
	for _, value := range values {
		hash, err := value.Hash()
		if err != nil {
			return err
		}

		leafs = append(leafs, &Node[T]{
			Hash:  hash,
			Value: value,
			leaf:  true,
			Tree:  t,
		})
	}

	if len(leafs)%2 == 1 {
		last := leafs[len(leafs)-1]
		leafs = append(leafs, &Node[T]{
			Hash:  last.Hash,
			Value: last.Value,
			leaf:  true,
			dup:   true,
			Tree:  t,
		})
	}

	root, err := buildIntermediate(leafs, t)
	if err != nil {
		return err
	}

	t.Root = root
	t.Leafs = leafs
	t.MerkleRoot = root.Hash

	return nil
}

// RootHash returns the merkle root as a 32 byte hash.
func (t *Tree[T]) RootHash() common.Hash {
	return common.BytesToHash(t.MerkleRoot)
}

// Proof returns the sibling hashes from the leaf holding data up to the
// root and the side each one is concatenated on. VerifyProof checks the
// result against a root without needing the tree.
func (t *Tree[T]) Proof(data T) ([]common.Hash, []Side, error) {
	for _, node := range t.Leafs {
		if !node.Value.Equals(data) {
			continue
		}

		var proof []common.Hash
		var sides []Side

		for parent := node.Parent; parent != nil; parent = parent.Parent {
			if parent.Left == node {
				proof = append(proof, common.BytesToHash(parent.Right.Hash))
				sides = append(sides, Right)
			} else {
				proof = append(proof, common.BytesToHash(parent.Left.Hash))
				sides = append(sides, Left)
			}
			node = parent
		}

		return proof, sides, nil
	}

	return nil, nil, ErrNotFound
}

// Verify recalculates every hash in the tree and checks the result matches
// the stored root.
func (t *Tree[T]) Verify() error {
	calculated, err := t.Root.verify()
	if err != nil {
		return err
	}

	if !bytes.Equal(t.MerkleRoot, calculated) {
		return errors.New("root hash invalid")
	}

	return nil
}

// Values returns a slice of unique values stores in the tree.
func (t *Tree[T]) Values() []T {
	values := make([]T, 0, len(t.Leafs))
	for _, node := range t.Leafs {
		if !node.dup {
			values = append(values, node.Value)
		}
	}

	return values
}

// =============================================================================

// VerifyProof reports whether the leaf hash, combined with the proof
// hashes on the specified sides, produces the root.
func VerifyProof(root common.Hash, leaf []byte, proof []common.Hash, sides []Side) bool {
	if len(proof) != len(sides) {
		return false
	}

	current := leaf
	for i, sibling := range proof {
		h := keccak()
		switch sides[i] {
		case Left:
			h.Write(sibling.Bytes())
			h.Write(current)
		default:
			h.Write(current)
			h.Write(sibling.Bytes())
		}
		current = h.Sum(nil)
	}

	return bytes.Equal(current, root.Bytes())
}

// =============================================================================

// Node represents a node, root, or leaf in the tree. It stores pointers to its
// immediate relationships, a hash, the data if it is a leaf, and other metadata.
type Node[T Hashable[T]] struct {
	Tree   *Tree[T]
	Parent *Node[T]
	Left   *Node[T]
	Right  *Node[T]
	Hash   []byte
	Value  T
	leaf   bool
	dup    bool
}

// verify walks down the tree until hitting a leaf, calculating the hash at
// each level and returning the resulting hash of the node.
func (n *Node[T]) verify() ([]byte, error) {
	if n.leaf {
		return n.Value.Hash()
	}

	rightBytes, err := n.Right.verify()
	if err != nil {
		return nil, err
	}

	leftBytes, err := n.Left.verify()
	if err != nil {
		return nil, err
	}

	h := n.Tree.hashStrategy()
	h.Write(leftBytes)
	h.Write(rightBytes)

	return h.Sum(nil), nil
}

// =============================================================================

// buildIntermediate is a helper function that for a given list of leaf nodes,
// constructs the intermediate and root levels of the tree. Returns the resulting
// root node of the tree.
func buildIntermediate[T Hashable[T]](nl []*Node[T], t *Tree[T]) (*Node[T], error) {
	var nodes []*Node[T]

	for i := 0; i < len(nl); i += 2 {
		left, right := i, i+1
		if i+1 == len(nl) {
			right = i
		}

		h := t.hashStrategy()
		h.Write(nl[left].Hash)
		h.Write(nl[right].Hash)

		n := Node[T]{
			Left:  nl[left],
			Right: nl[right],
			Hash:  h.Sum(nil),
			Tree:  t,
		}

		nodes = append(nodes, &n)
		nl[left].Parent = &n
		nl[right].Parent = &n

		if len(nl) == 2 {
			return &n, nil
		}
	}

	return buildIntermediate(nodes, t)
}

func keccak() hash.Hash {
	return crypto.NewKeccakState()
}
