package service

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ============================================================
// Locations file
// ============================================================

const (
	defaultEmptyTemp   = 18.0
	defaultDefaultTemp = 20.0
)

// LocationConfig - локация и её сервер Home Assistant.
type LocationConfig struct {
	Location    string  `yaml:"LOCATION"`
	HAIP        string  `yaml:"HA_IP"`
	HAPort      int     `yaml:"HA_PORT"`
	HAToken     string  `yaml:"HA_BEARER_TOKEN"`
	EmptyTemp   float64 `yaml:"EMPTY_ROOM_TEMP_IN_CELSIUS"`
	DefaultTemp float64 `yaml:"DEFAULT_ROOM_TEMP_IN_CELSIUS"`
}

type locationsFile struct {
	Locations []LocationConfig `yaml:"LOCATIONS"`
}

// BaseURL - адрес Home Assistant. HA_IP может быть со схемой или без.
func (l LocationConfig) BaseURL() string {
	host := l.HAIP
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	if l.HAPort == 0 {
		return host
	}
	return fmt.Sprintf("%s:%d", host, l.HAPort)
}

// LoadLocations читает YAML со списком LOCATIONS.
func LoadLocations(path string) ([]LocationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read locations file: %w", err)
	}

	var file locationsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse locations file: %w", err)
	}
	if len(file.Locations) == 0 {
		return nil, fmt.Errorf("no LOCATIONS in %s", path)
	}

	for i := range file.Locations {
		l := &file.Locations[i]
		if l.Location == "" {
			return nil, fmt.Errorf("location #%d has no LOCATION", i+1)
		}
		if l.EmptyTemp == 0 {
			l.EmptyTemp = defaultEmptyTemp
		}
		if l.DefaultTemp == 0 {
			l.DefaultTemp = defaultDefaultTemp
		}
	}
	return file.Locations, nil
}
