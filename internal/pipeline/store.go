package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/dgallion1/clausetree/internal/pathstore"
)

// Store is the part of the pathstore client the worker writes through.
type Store interface {
	PutNode(ctx context.Context, key string, req pathstore.NodeRequest) error
	ListChildren(ctx context.Context, key string, limit int) ([]pathstore.ListChildrenResponse, error)
	PutLink(ctx context.Context, req pathstore.LinkRequest) error
}

// Keys lays out a user's documents in pathstore:
//
//	<prefix>/users/<user>/docs/<doc>/meta
//	<prefix>/users/<user>/docs/<doc>/clauses/<n>
//	<prefix>/users/<user>/docs/<doc>/chunks/<n>
//	<prefix>/users/<user>/docs/<doc>/glossary
//	<prefix>/users/<user>/by_hash/<sha256>/<doc>
type Keys struct {
	Prefix string
	UserID string
}

func (k Keys) user() string {
	if k.Prefix == "" {
		return "users/" + k.UserID
	}
	return k.Prefix + "/users/" + k.UserID
}

func (k Keys) Docs() string { return k.user() + "/docs" }
func (k Keys) Doc(docID string) string { return k.Docs() + "/" + docID }
func (k Keys) Meta(docID string) string { return k.Doc(docID) + "/meta" }
func (k Keys) Glossary(docID string) string { return k.Doc(docID) + "/glossary" }

func (k Keys) Clause(docID string, n int) string {
	return fmt.Sprintf("%s/clauses/%05d", k.Doc(docID), n)
}

func (k Keys) Chunk(docID string, n int) string {
	return fmt.Sprintf("%s/chunks/%05d", k.Doc(docID), n)
}

func (k Keys) HashIndex(hash string) string { return k.user() + "/by_hash/" + hash }

func (k Keys) HashEntry(hash, docID string) string { return k.HashIndex(hash) + "/" + docID }

// LastSegment returns the final element of a key path. pathstore may report
// keys with either "/" or "." separators.
func LastSegment(key string) string {
	if i := strings.LastIndexAny(key, "/."); i >= 0 {
		return key[i+1:]
	}
	return key
}
