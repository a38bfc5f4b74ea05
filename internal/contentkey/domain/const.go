package domain

// Strategy names how the content key is produced and protected.
type Strategy string

const (
	// StrategyHardwareManaged keeps the AES key inside the key store.
	StrategyHardwareManaged Strategy = "hardware-managed"
	// StrategyLegacyWrapped keeps a raw AES key wrapped by the KEK in a blob store.
	StrategyLegacyWrapped Strategy = "legacy-wrapped"
	// StrategyAuto picks hardware-managed when the key store supports it.
	StrategyAuto Strategy = "auto"
)

// ParseStrategy validates a configured strategy preference.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyAuto, StrategyHardwareManaged, StrategyLegacyWrapped:
		return Strategy(s), nil
	default:
		return "", ErrUnknownStrategy
	}
}

// State is the provisioning state of a content key provider.
type State int

const (
	StateUnprovisioned State = iota
	StateProvisioning
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUnprovisioned:
		return "unprovisioned"
	case StateProvisioning:
		return "provisioning"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Storage location of the wrapped content key.
const (
	WrappedKeyStore = "wrapped-content-key-store"
	WrappedKeyName  = "wrapped_key_b64"
)

// KeySize is the AES-128 content key length in bytes.
const KeySize = 16
