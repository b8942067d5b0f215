package content

import (
	"encoding/json"
	"fmt"
	"time"

	"gitlet/shared/utils"
)

type Kind string

const (
	KindBlob   Kind = "blob"
	KindCommit Kind = "commit"
)

// Blob is one file's bytes. The ID is computed from Content alone, so two
// files with different names and identical bytes share one ID; Name only
// says which file this copy came from.
type Blob struct {
	ID      string
	Name    string
	Content []byte
}

// Commit is an immutable snapshot of the tracked file set. Parent is empty
// only for the root commit; Parent2 is set only on merge commits. Blobs maps
// file name to blob ID.
//
// ID is never part of the encoded form, so Encode and CommitID can reproduce
// it from the stored record.
type Commit struct {
	ID        string            `json:"-"`
	Message   string            `json:"message"`
	Timestamp int64             `json:"timestamp"`
	Parent    string            `json:"parent,omitempty"`
	Parent2   string            `json:"parent2,omitempty"`
	Blobs     map[string]string `json:"blobs"`
}

func (c *Commit) IsMerge() bool {
	return c.Parent2 != ""
}

func (c *Commit) Time() time.Time {
	return time.Unix(c.Timestamp, 0)
}

// Parents lists the parent ids, first parent first.
func (c *Commit) Parents() []string {
	var parents []string
	if c.Parent != "" {
		parents = append(parents, c.Parent)
	}
	if c.Parent2 != "" {
		parents = append(parents, c.Parent2)
	}
	return parents
}

// Tracks returns the blob ID recorded for name.
func (c *Commit) Tracks(name string) (string, bool) {
	id, ok := c.Blobs[name]
	return id, ok
}

// Encode serializes every field except ID. Map keys come out sorted, so the
// encoding is deterministic.
func (c *Commit) Encode() ([]byte, error) {
	enc := *c
	if enc.Blobs == nil {
		enc.Blobs = map[string]string{}
	}
	data, err := json.Marshal(&enc)
	if err != nil {
		return nil, fmt.Errorf("encoding commit: %w", err)
	}
	return data, nil
}

func decodeCommit(id string, data []byte) (*Commit, error) {
	var c Commit
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding commit %s: %w", id, err)
	}
	if c.Blobs == nil {
		c.Blobs = map[string]string{}
	}
	c.ID = id
	return &c, nil
}

func BlobID(content []byte) string {
	return utils.HashObject(string(KindBlob), content)
}

func CommitID(encoded []byte) string {
	return utils.HashObject(string(KindCommit), encoded)
}

// Meta is the index record kept for every stored object.
type Meta struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *Meta) GetID() string {
	return m.ID
}
