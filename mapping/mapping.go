// Package mapping loads and persists the curated ground-truth mapping of
// agency codes to news-section URLs, stored as a YAML document:
//
//	agencies:
//	  agricultura: https://www.gov.br/agricultura/pt-br/assuntos/noticias
package mapping

import (
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrDuplicateAgency indicates the canonical mapping names the same agency
// key twice. The mapping is configuration; a duplicate is a setup error.
var ErrDuplicateAgency = errors.New("duplicate agency key in canonical mapping")

const agenciesKey = "agencies"

var agencyCodeRe = regexp.MustCompile(`https://www\.gov\.br/([^/]+)/pt-br`)

// AgencyCode extracts the agency key from a gov.br portal URL, or returns
// an empty string when the URL does not follow the portal layout.
func AgencyCode(portalURL string) string {
	m := agencyCodeRe.FindStringSubmatch(portalURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// Load reads the canonical mapping from a YAML file. A file without an
// agencies section yields an empty mapping; a duplicated agency key fails
// fast with ErrDuplicateAgency.
func Load(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("canonical mapping %s: %w", path, err)
	}

	urls, err := unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("canonical mapping %s: %w", path, err)
	}

	log.Printf("Loaded %d agencies from %s", len(urls), path)
	return urls, nil
}

// unmarshal decodes through yaml.Node rather than a map so duplicated keys
// are detected instead of silently collapsed.
func unmarshal(data []byte) (map[string]string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	urls := make(map[string]string)
	if len(root.Content) == 0 {
		return urls, nil
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping at document root, got %v", doc.Kind)
	}

	var agencies *yaml.Node
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value == agenciesKey {
			agencies = doc.Content[i+1]
			break
		}
	}
	if agencies == nil {
		return urls, nil
	}
	if agencies.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected %q to be a mapping, got %v", agenciesKey, agencies.Kind)
	}

	for i := 0; i+1 < len(agencies.Content); i += 2 {
		key := agencies.Content[i].Value
		if _, seen := urls[key]; seen {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateAgency, key)
		}
		urls[key] = agencies.Content[i+1].Value
	}

	return urls, nil
}

// Marshal renders the mapping as YAML with agency keys sorted, so saves are
// deterministic and diffs stay reviewable.
func Marshal(urls map[string]string) ([]byte, error) {
	keys := make([]string, 0, len(urls))
	for key := range urls {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	agencies := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range keys {
		agencies.Content = append(agencies.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Value: urls[key]},
		)
	}

	root := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: agenciesKey},
			agencies,
		},
	}

	out, err := yaml.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal mapping: %w", err)
	}
	return out, nil
}

// Save writes the mapping to a YAML file.
func Save(path string, urls map[string]string) error {
	data, err := Marshal(urls)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("canonical mapping %s: %w", path, err)
	}
	log.Printf("Saved %d agencies to %s", len(urls), path)
	return nil
}
