// Package catalog holds the static service content shown by the bot:
// categories, their sub-categories, long-form service details and the
// consultation contact sheet.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultDocument []byte

// ErrUnknownCategory is returned when a category code is not in the catalog.
var ErrUnknownCategory = errors.New("catalog: unknown category")

// Code identifies a top-level service category.
type Code string

const (
	Chatbot   Code = "chatbot"
	Landing   Code = "landing"
	Marketing Code = "marketing"
	Program   Code = "program"
	Shopping  Code = "shopping"
)

// Valid reports whether c is one of the five known category codes.
func (c Code) Valid() bool {
	switch c {
	case Chatbot, Landing, Marketing, Program, Shopping:
		return true
	}
	return false
}

type Category struct {
	Code          Code          `yaml:"code"`
	Name          string        `yaml:"name"`
	Description   string        `yaml:"description"`
	SubCategories []SubCategory `yaml:"sub_categories"`
}

type SubCategory struct {
	Parent      Code   `yaml:"-"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Detail is the long description of one sub-category, pricing included.
type Detail struct {
	Key         string `yaml:"-"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Contact is the fixed consultation contact sheet.
type Contact struct {
	Phone        string `yaml:"phone"`
	PhoneURL     string `yaml:"phone_url"`
	KakaoChannel string `yaml:"kakao_channel"`
	KakaoURL     string `yaml:"kakao_url"`
	Email        string `yaml:"email"`
	EmailURL     string `yaml:"email_url"`
	Hours        string `yaml:"hours"`
}

type document struct {
	Categories []Category        `yaml:"categories"`
	Details    map[string]Detail `yaml:"details"`
	Contact    Contact           `yaml:"contact"`
}

// Catalog is immutable once loaded and safe for concurrent use.
type Catalog struct {
	categories []Category
	byCode     map[Code]int
	byName     map[string]int
	details    map[string]Detail
	contact    Contact
}

// Default returns the catalog compiled into the binary.
// It panics if the embedded document is invalid.
func Default() *Catalog {
	c, err := Parse(defaultDocument)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded document: %v", err))
	}
	return c
}

// LoadFile parses a catalog document from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	c := &Catalog{
		byCode:  make(map[Code]int, len(doc.Categories)),
		byName:  make(map[string]int, len(doc.Categories)),
		details: make(map[string]Detail, len(doc.Details)),
		contact: doc.Contact,
	}

	if len(doc.Categories) == 0 {
		return nil, errors.New("catalog: no categories defined")
	}
	for i, cat := range doc.Categories {
		if !cat.Code.Valid() {
			return nil, fmt.Errorf("catalog: category %q: %w", cat.Code, ErrUnknownCategory)
		}
		if cat.Name == "" {
			return nil, fmt.Errorf("catalog: category %q has no name", cat.Code)
		}
		if _, dup := c.byCode[cat.Code]; dup {
			return nil, fmt.Errorf("catalog: duplicate category code %q", cat.Code)
		}
		if _, dup := c.byName[cat.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate category name %q", cat.Name)
		}
		if len(cat.SubCategories) == 0 {
			return nil, fmt.Errorf("catalog: category %q has no sub-categories", cat.Code)
		}
		for j := range cat.SubCategories {
			cat.SubCategories[j].Parent = cat.Code
		}
		c.byCode[cat.Code] = i
		c.byName[cat.Name] = i
		c.categories = append(c.categories, cat)
	}

	for key, d := range doc.Details {
		d.Key = key
		c.details[key] = d
	}

	return c, nil
}

// Categories returns all categories in display order.
func (c *Catalog) Categories() []Category {
	return slices.Clone(c.categories)
}

func (c *Catalog) Category(code Code) (Category, bool) {
	i, ok := c.byCode[code]
	if !ok {
		return Category{}, false
	}
	return c.categories[i], true
}

// CategoryByName matches a display name exactly (case-sensitive).
func (c *Catalog) CategoryByName(name string) (Category, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Category{}, false
	}
	return c.categories[i], true
}

// SubCategories returns the sub-category list of code in display order.
func (c *Catalog) SubCategories(code Code) ([]SubCategory, error) {
	cat, ok := c.Category(code)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, code)
	}
	return slices.Clone(cat.SubCategories), nil
}

// Detail looks up the detail for key. A miss yields a generated placeholder
// that names the key and points the user to a consultation.
func (c *Catalog) Detail(key string) Detail {
	if d, ok := c.details[key]; ok {
		return d
	}
	return Detail{
		Key:         key,
		Title:       key + " 서비스",
		Description: key + " 서비스에 대한 상세 정보입니다.\n\n자세한 내용은 상담원과 상담해주세요.",
	}
}

func (c *Catalog) Contact() Contact {
	return c.contact
}
