// Package catalog tracks fetched datasets on disk.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saleslens/saleslens/internal/errs"
	"github.com/saleslens/saleslens/internal/utils"
)

const catalogFileName = "catalog.json"

// Dataset is one fetched dataset recorded in the catalog.
type Dataset struct {
	ID     string `json:"id"`
	Ref    string `json:"ref"`
	Source string `json:"source"`
	// Dir is the directory holding the dataset files, relative to the
	// catalog root.
	Dir     string    `json:"dir"`
	Rows    int       `json:"rows"`
	Cols    int       `json:"cols"`
	AddedAt time.Time `json:"added_at"`
}

// Catalog is the on-disk index of fetched datasets.
type Catalog struct {
	Datasets  map[string]*Dataset `json:"datasets"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`

	// Not serialized: on-disk location of the catalog.json
	rootDir string `json:"-"`
}

// New constructs an in-memory catalog rooted at dir. Call Save() to persist.
func New(rootDir string) *Catalog {
	return &Catalog{
		Datasets:  make(map[string]*Dataset),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		rootDir:   rootDir,
	}
}

// Load reads catalog.json from the provided directory. A missing file yields
// an empty catalog so first use needs no init step.
func Load(dir string) (*Catalog, error) {
	path := filepath.Join(dir, catalogFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(dir), nil
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var c Catalog
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if c.Datasets == nil {
		c.Datasets = make(map[string]*Dataset)
	}
	c.rootDir = dir
	return &c, nil
}

// RootDir returns the on-disk catalog directory path.
func (c *Catalog) RootDir() string { return c.rootDir }

// Save writes catalog.json using atomic write.
func (c *Catalog) Save() error {
	if c.rootDir == "" {
		return errors.New("catalog root directory not set")
	}
	if err := utils.EnsureDir(c.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	c.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(c)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(c.rootDir, catalogFileName), data)
}

// Add records a fetched dataset and returns its new entry.
func (c *Catalog) Add(ref, source, dir string) *Dataset {
	d := &Dataset{
		ID:      uuid.NewString(),
		Ref:     ref,
		Source:  source,
		Dir:     dir,
		AddedAt: time.Now(),
	}
	if c.Datasets == nil {
		c.Datasets = make(map[string]*Dataset)
	}
	c.Datasets[d.ID] = d
	c.UpdatedAt = time.Now()
	return d
}

// Find resolves a dataset by exact ID, unambiguous ID prefix, or ref.
func (c *Catalog) Find(key string) (*Dataset, error) {
	if d, ok := c.Datasets[key]; ok {
		return d, nil
	}
	var matches []*Dataset
	for _, d := range c.Datasets {
		if strings.HasPrefix(d.ID, key) || d.Ref == key {
			matches = append(matches, d)
		}
	}
	switch len(matches) {
	case 0:
		return nil, errs.NotFoundf("dataset %q not in catalog", key)
	case 1:
		return matches[0], nil
	default:
		return nil, errs.InvalidArgumentf("dataset key %q is ambiguous (%d matches)", key, len(matches))
	}
}

// List returns all datasets ordered by when they were added.
func (c *Catalog) List() []*Dataset {
	out := make([]*Dataset, 0, len(c.Datasets))
	for _, d := range c.Datasets {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].AddedAt.Before(out[j].AddedAt)
	})
	return out
}
