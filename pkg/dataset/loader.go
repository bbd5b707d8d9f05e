/*
Package dataset loads static option collections for the typeahead server
and CLI.

Two file shapes are supported: a TOML file of [[option]] tables whose keys
become record fields, and a plain text file with one option value per line.
TOML records keep arbitrary fields, so option_field, group_field and
order_field from the pipeline config can address them.
*/
package dataset

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// tomlFile is the on-disk shape of a TOML option set.
type tomlFile struct {
	Options []map[string]any `toml:"option"`
}

// Load reads an option collection, picking the format from the file
// extension: .toml for record sets, anything else for line-per-value text.
func Load(path string) ([]any, error) {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return LoadTOML(path)
	}
	return LoadLines(path)
}

// LoadTOML reads [[option]] tables into record options.
func LoadTOML(path string) ([]any, error) {
	var file tomlFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("dataset: parsing %s: %w", path, err)
	}
	if len(file.Options) == 0 {
		log.Warnf("dataset: %s contains no option tables", path)
	}

	options := make([]any, len(file.Options))
	for i, record := range file.Options {
		options[i] = record
	}
	log.Debugf("dataset: loaded %d options from %s", len(options), path)
	return options, nil
}

// LoadLines reads one option value per line, skipping blanks and lines
// starting with '#'.
func LoadLines(path string) ([]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: opening %s: %w", path, err)
	}
	defer f.Close()

	var options []any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		options = append(options, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dataset: reading %s: %w", path, err)
	}
	log.Debugf("dataset: loaded %d options from %s", len(options), path)
	return options, nil
}
