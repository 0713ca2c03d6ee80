// Package source holds the static catalog of scrape targets. Every site is
// described by one Descriptor consumed by the generic scraper; there is no
// per-site code.
package source

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// Descriptor describes how to locate job postings on one listing site.
// Immutable after process start.
type Descriptor struct {
	Name                string `yaml:"name"`
	URL                 string `yaml:"url"`
	Selector            string `yaml:"selector"`
	TitleSelector       string `yaml:"title_selector"`
	DescriptionSelector string `yaml:"description_selector"`
	PriceSelector       string `yaml:"price_selector"`
	DateSelector        string `yaml:"date_selector"`
}

// PageURL builds the listing URL for the given page number.
func (d Descriptor) PageURL(page int) string {
	return fmt.Sprintf("%s?page=%d", d.URL, page)
}

// Origin returns scheme://host of the listing URL, used to resolve
// relative posting links. Empty when the base URL is unparseable.
func (d Descriptor) Origin() string {
	u, err := url.Parse(d.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// Registry is an ordered, read-only catalog of source descriptors.
type Registry struct {
	order  []string
	byName map[string]Descriptor
}

func NewRegistry(descriptors ...Descriptor) *Registry {
	r := &Registry{byName: make(map[string]Descriptor, len(descriptors))}
	for _, d := range descriptors {
		if _, exists := r.byName[d.Name]; exists {
			continue
		}
		r.order = append(r.order, d.Name)
		r.byName[d.Name] = d
	}
	return r
}

// Default returns the built-in catalog of freelance job boards.
func Default() *Registry {
	return NewRegistry(
		Descriptor{
			Name:                "FL.ru",
			URL:                 "https://www.fl.ru/projects/",
			Selector:            "div.b-post",
			TitleSelector:       "a.b-post__link",
			DescriptionSelector: "div.b-post__body",
			PriceSelector:       "div.b-post__price",
			DateSelector:        "div.b-post__foot",
		},
		Descriptor{
			Name:                "Freelance.habr",
			URL:                 "https://freelance.habr.com/tasks",
			Selector:            "li.content-list__item",
			TitleSelector:       "a.task__title-link",
			DescriptionSelector: "div.task__description",
			PriceSelector:       "span.count",
			DateSelector:        "span.params__published-at",
		},
	)
}

// LoadFile reads a YAML catalog. Used to extend or replace the built-in
// sources without touching code.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	var descriptors []Descriptor
	if err := yaml.Unmarshal(data, &descriptors); err != nil {
		return nil, fmt.Errorf("parse sources file: %w", err)
	}
	if len(descriptors) == 0 {
		return nil, fmt.Errorf("sources file %s defines no sources", path)
	}

	for _, d := range descriptors {
		if d.Name == "" || d.URL == "" || d.Selector == "" {
			return nil, fmt.Errorf("source %q: name, url and selector are required", d.Name)
		}
	}

	return NewRegistry(descriptors...), nil
}

func (r *Registry) Get(name string) (Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Names returns source names in catalog order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

func (r *Registry) Len() int {
	return len(r.order)
}
