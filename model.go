package main

import "time"

// NetworkConfig describes the wireless network the access point joins at
// startup.  An empty passphrase means an open network.
type NetworkConfig struct {
	SSID       string `json:"ssid"`
	Passphrase string `json:"passphrase"`
	Interface  string `json:"interface"` // e.g. "wlan0"; empty means any interface
}

// ReaderConfig holds the wiring of the MFRC522 proximity sensor.  Pins use
// BCM numbering.
type ReaderConfig struct {
	SPIPort       string `json:"spi_port"` // empty selects the first SPI port
	ResetPin      int    `json:"reset_pin"`
	IRQPin        int    `json:"irq_pin"`
	PollTimeoutMS int    `json:"poll_timeout_ms"`
}

// IndicatorConfig holds the two indicator outputs.  ActiveLow is set when an
// LED is wired between the pin and 3V3, so that a low level lights it.
type IndicatorConfig struct {
	SuccessPin int  `json:"success_pin"`
	FailurePin int  `json:"failure_pin"`
	ActiveLow  bool `json:"active_low"`
}

// RecorderConfig selects a scan recorder.  Type is "journal" or "textfile".
type RecorderConfig struct {
	Type string `json:"type"`
	Path string `json:"path"`
}

// Config is the top-level structure read from config.json.  It is fixed for
// the lifetime of the process.
type Config struct {
	Network               NetworkConfig    `json:"network"`
	ServerURL             string           `json:"server_url"`
	RequestTimeoutSeconds int              `json:"request_timeout_seconds"`
	Reader                ReaderConfig     `json:"reader"`
	Indicators            IndicatorConfig  `json:"indicators"`
	LogLevel              string           `json:"log_level"`
	Recorders             []RecorderConfig `json:"recorders"`
}

// Outcome is the resolution of a single scan.
type Outcome int

const (
	OutcomeGranted Outcome = iota
	OutcomeDenied
	OutcomeCommFail
)

func (o Outcome) String() string {
	switch o {
	case OutcomeGranted:
		return "granted"
	case OutcomeDenied:
		return "denied"
	case OutcomeCommFail:
		return "comm_fail"
	default:
		return "unknown"
	}
}

// IndicatorState is what the two lights currently show.
type IndicatorState int

const (
	StateIdle IndicatorState = iota
	StateSuccess
	StateFailure
	StateCommunicationError
)

func (s IndicatorState) String() string {
	switch s {
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	case StateCommunicationError:
		return "communication_error"
	default:
		return "idle"
	}
}

// VerdictResponse is the server's answer for one UID.  Malformed is set when
// the body carried no boolean "success" field.  Success then follows the
// field's truthiness, so an absent field is a denial and {"success": 1} is
// still a grant.
type VerdictResponse struct {
	Success   bool
	Message   string
	Malformed bool
}

// ScanRecord describes a resolved scan as handed to the recorders.
type ScanRecord struct {
	ID        string
	UID       string
	Outcome   Outcome
	Message   string
	Err       error
	Malformed bool
	At        time.Time
	Latency   time.Duration
}
