package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	if !contains(configDir, "ventcore") {
		t.Errorf("GetConfigDir() = %v, should contain 'ventcore'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !contains(configDir, "AppData") && !contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin", "linux":
		if !contains(configDir, ".config") {
			t.Errorf("Unix config dir should contain '.config', got: %v", configDir)
		}
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}
	if reg.Devices == nil {
		t.Error("NewRegistry().Devices should not be nil")
	}
	if reg.Preferences == nil {
		t.Error("NewRegistry().Preferences should not be nil")
	}
	if reg.Preferences.SerialBaud != 115200 {
		t.Errorf("NewRegistry().Preferences.SerialBaud = %v, want 115200", reg.Preferences.SerialBaud)
	}
	if reg.Preferences.HeartbeatPeriod != 30 {
		t.Errorf("NewRegistry().Preferences.HeartbeatPeriod = %v, want 30", reg.Preferences.HeartbeatPeriod)
	}
}

func TestRegistryEnsureDevice(t *testing.T) {
	reg := NewRegistry()

	device1 := reg.EnsureDevice("1-2-3")
	if device1 == nil {
		t.Fatal("EnsureDevice() returned nil")
	}

	device2 := reg.EnsureDevice("1-2-3")
	if device1 != device2 {
		t.Error("EnsureDevice() should return same instance for same device_id")
	}

	device3 := reg.EnsureDevice("4-5-6")
	if device1 == device3 {
		t.Error("EnsureDevice() should create new instance for different device_id")
	}
}

func TestRegistryUpdateDeviceLastSeen(t *testing.T) {
	reg := NewRegistry()

	reg.UpdateDeviceLastSeen("1-2-3", "/dev/ttyUSB0", "2026-07-30T10:00:00Z")

	device := reg.GetDevice("1-2-3")
	if device == nil {
		t.Fatal("Device should exist after UpdateDeviceLastSeen()")
	}
	if device.LastSerial != "/dev/ttyUSB0" {
		t.Errorf("LastSerial = %v, want /dev/ttyUSB0", device.LastSerial)
	}
	if device.LastSeen != "2026-07-30T10:00:00Z" {
		t.Errorf("LastSeen = %v, want 2026-07-30T10:00:00Z", device.LastSeen)
	}
}

func TestRegistrySetDeviceNickname(t *testing.T) {
	reg := NewRegistry()

	reg.SetDeviceNickname("1-2-3", "Bench Test Ventilator")

	device := reg.GetDevice("1-2-3")
	if device == nil {
		t.Fatal("Device should exist after SetDeviceNickname()")
	}
	if device.Nickname != "Bench Test Ventilator" {
		t.Errorf("Nickname = %v, want 'Bench Test Ventilator'", device.Nickname)
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "ventcore-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	testConfigPath := filepath.Join(tmpDir, "config.yaml")

	reg := NewRegistry()
	reg.SetDeviceNickname("1-2-3", "Bench Test Ventilator")
	reg.Preferences.SerialPort = "/dev/ttyUSB0"
	reg.Preferences.CaptureDir = "/tmp/captures"

	data, err := yaml.Marshal(reg)
	if err != nil {
		t.Fatalf("Failed to marshal registry: %v", err)
	}
	if err := os.WriteFile(testConfigPath, data, 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	loadedData, err := os.ReadFile(testConfigPath)
	if err != nil {
		t.Fatalf("Failed to read test config: %v", err)
	}
	var loadedReg Registry
	if err := yaml.Unmarshal(loadedData, &loadedReg); err != nil {
		t.Fatalf("Failed to unmarshal registry: %v", err)
	}

	device := loadedReg.GetDevice("1-2-3")
	if device == nil {
		t.Fatal("Device should exist in loaded registry")
	}
	if device.Nickname != "Bench Test Ventilator" {
		t.Errorf("Loaded nickname = %v, want 'Bench Test Ventilator'", device.Nickname)
	}
	if loadedReg.Preferences.SerialPort != "/dev/ttyUSB0" {
		t.Errorf("Loaded serial port = %v, want /dev/ttyUSB0", loadedReg.Preferences.SerialPort)
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(substr) == 0 ||
		(len(s) > 0 && (s[:len(substr)] == substr || contains(s[1:], substr))))
}

func BenchmarkGetConfigDir(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = GetConfigDir()
	}
}

func BenchmarkEnsureDevice(b *testing.B) {
	reg := NewRegistry()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.EnsureDevice("1-2-3")
	}
}
