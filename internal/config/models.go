package config

// Registry represents the entire user configuration file. It stores
// session preferences only: it never persists wire-protocol command
// overrides, since the device itself remains the sole authority over its
// own settings.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // keyed by device_id string "A-B-C"
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device represents user-defined metadata for a single ventilator, keyed
// by its device_id in the Registry.
type Device struct {
	Nickname   string `yaml:"nickname,omitempty"`    // user-friendly name
	LastSerial string `yaml:"last_serial,omitempty"` // last serial port used to reach this device
	LastSeen   string `yaml:"last_seen,omitempty"`   // RFC3339 timestamp of the last session
}

// Preferences represents application-wide session preferences.
type Preferences struct {
	SerialPort      string `yaml:"serial_port,omitempty"`      // default serial device path, e.g. /dev/ttyUSB0
	SerialBaud      int    `yaml:"serial_baud"`                // default baud rate
	CaptureDir      string `yaml:"capture_dir,omitempty"`       // default directory for recorded capture files
	LogLevel        string `yaml:"log_level"`                  // default VENTCORE_LOG_LEVEL value
	HeartbeatPeriod int    `yaml:"heartbeat_period_seconds"`    // seconds between Heartbeat commands
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Devices: make(map[string]*Device),
		Preferences: &Preferences{
			SerialBaud:      115200,
			LogLevel:        "info",
			HeartbeatPeriod: 30,
		},
	}
}

// GetDevice retrieves device metadata by device_id. Returns nil if the
// device doesn't exist in the registry.
func (r *Registry) GetDevice(deviceID string) *Device {
	return r.Devices[deviceID]
}

// EnsureDevice ensures a device entry exists in the registry, creating one
// with default values if needed, and returns it.
func (r *Registry) EnsureDevice(deviceID string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}
	if device, exists := r.Devices[deviceID]; exists {
		return device
	}
	device := &Device{}
	r.Devices[deviceID] = device
	return device
}

// SetDeviceNickname sets a user-friendly nickname for a device.
func (r *Registry) SetDeviceNickname(deviceID, nickname string) {
	r.EnsureDevice(deviceID).Nickname = nickname
}

// UpdateDeviceLastSeen records the serial port and timestamp of the most
// recent session with a device.
func (r *Registry) UpdateDeviceLastSeen(deviceID, serialPort, timestamp string) {
	device := r.EnsureDevice(deviceID)
	device.LastSerial = serialPort
	device.LastSeen = timestamp
}
