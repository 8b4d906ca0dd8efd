package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ArchiveLink is the static link shown on every sermon card.
type ArchiveLink struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// Sources is the source-label table used when rendering generic page results.
type Sources struct {
	// Suffix is the organizational domain suffix, including the leading dot.
	Suffix string `yaml:"suffix"`
	// Labels maps a hostname under Suffix to its display name.
	Labels  map[string]string `yaml:"labels"`
	Archive ArchiveLink       `yaml:"archive"`
}

// DefaultSources returns the built-in label table.
func DefaultSources() *Sources {
	return &Sources{
		Suffix: ".rccc.org",
		Labels: map[string]string{
			"school.rccc.org": "主日學",
			"cn.rccc.org":     "中文主站",
			"en.rccc.org":     "英文主站",
			"rbsg.rccc.org":   "若歌學生查經班",
		},
		Archive: ArchiveLink{
			Label: "講道庫",
			URL:   "http://www.rccc.org/Sermon/home",
		},
	}
}

// LoadSources reads and parses a YAML source-label file. A missing file is
// reported with an error wrapping fs.ErrNotExist so callers can fall back to
// DefaultSources.
func LoadSources(path string) (*Sources, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var sources Sources
	if err := yaml.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("failed to parse sources YAML: %w", err)
	}
	if sources.Suffix == "" {
		return nil, errors.New("sources file must set a suffix")
	}
	if !strings.HasPrefix(sources.Suffix, ".") {
		sources.Suffix = "." + sources.Suffix
	}

	labels := make(map[string]string, len(sources.Labels))
	for host, label := range sources.Labels {
		labels[strings.ToLower(host)] = label
	}
	sources.Labels = labels

	return &sources, nil
}

// IsNotExist reports whether err came from a missing sources file.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// FriendlyName returns the display name for host, or host itself when the
// table has no entry for it.
func (s *Sources) FriendlyName(host string) string {
	if name, ok := s.Labels[host]; ok {
		return name
	}
	return host
}
