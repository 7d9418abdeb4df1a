package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"chat-ocr/transcript"
)

const (
	configDir    = "config"
	settingsFile = "settings.json"
)

var (
	settings      Settings
	settingsMutex sync.RWMutex
)

func defaultSettings() Settings {
	return Settings{
		Engine:          transcript.DefaultConfig(),
		StatusBarHeight: statusBarHeight,
	}
}

// currentSettings returns a copy of the active settings.
func currentSettings() Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settings
}

// saveSettings saves the current settings to the settings.json file.
func saveSettings() error {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()
	return saveSettingsLocked()
}

// saveSettingsLocked performs the actual saving without locking the mutex.
// This is to be called from functions that already hold the lock.
func saveSettingsLocked() error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(configDir, settingsFile), data, 0644)
}

// loadSettings loads the settings from settings.json, creating it with defaults if it doesn't exist or is corrupt.
func loadSettings() {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settingsPath := filepath.Join(configDir, settingsFile)
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Infof("Settings file not found at %s, creating with default values.", settingsPath)
			settings = defaultSettings()
			if err := saveSettingsLocked(); err != nil {
				log.Fatalf("Failed to create default settings file: %v", err)
			}
		} else {
			log.Warnf("Failed to read settings file: %v. Loading default settings.", err)
			settings = defaultSettings()
		}
		return
	}

	// Fields missing from the file keep their default values.
	loaded := defaultSettings()
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.Warnf("Failed to parse settings file, please check its format. Loading default settings. Error: %v", err)
		settings = defaultSettings()
		return
	}
	settings = loaded

	log.Info("Successfully loaded settings from settings.json")
}

// applySettingsPatch merges a partial JSON document into the current settings,
// persists the result and returns it.
func applySettingsPatch(patch []byte) (Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	// Round-trip through JSON so the patch never writes into slices shared
	// with the live settings.
	current, err := json.Marshal(settings)
	if err != nil {
		return settings, err
	}
	var updated Settings
	if err := json.Unmarshal(current, &updated); err != nil {
		return settings, err
	}
	if err := json.Unmarshal(patch, &updated); err != nil {
		return settings, err
	}
	if updated.StatusBarHeight < 0 {
		updated.StatusBarHeight = 0
	}

	previous := settings
	settings = updated
	if err := saveSettingsLocked(); err != nil {
		settings = previous
		return previous, err
	}
	return updated, nil
}
