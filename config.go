package canopen

// Config holds the init-time feature flags and default knobs spec §6
// names: values the host picks once when building a device, rather
// than state any service mutates at runtime. Zero-value instantiation
// is not meaningful; use DefaultConfig and override individual fields.
type Config struct {
	// SDOTimeoutMs is the SDO server/client default idle timeout, a value
	// for the host to pass as pkg/sdo.NewSDOServer's timeoutMs parameter.
	// Like every field of Config, it is not read by any package of this
	// module.
	SDOTimeoutMs uint32

	// NMTBootRetries is the number of times the host should retry a
	// boot step before giving up. No boot FSM lives in this module
	// (NMT master boot orchestration is out of scope, see pkg/nmt's
	// package doc); this is a plain value for host-side boot logic to
	// read.
	NMTBootRetries uint8
	// NMTBootWaitMs is the wait between boot retries.
	NMTBootWaitMs uint32
	// NMTBootSubWaitMs is the shorter wait used between sub-steps of a
	// single boot attempt (e.g. polling a single SDO upload).
	NMTBootSubWaitMs uint32

	// CanFdEnable is a host-level transport flag. No code in this module
	// reads it, and Frame.Data stays fixed at the classic 8 bytes.
	CanFdEnable bool

	// ObjectLimitChecking is a value for the host to pass to
	// pkg/od's ObjectDictionary.SetLimitChecking, which turns
	// range-checking of written values against an object's low/high
	// limit on or off. pkg/od does not read this field itself.
	ObjectLimitChecking bool

	// ObjectNamesEnable is a host-level flag. No code in this module
	// reads it: Variable/Entry names are always populated and
	// searchable (Entry.SubIndex(name string)).
	ObjectNamesEnable bool
}

// DefaultConfig returns spec §6's named defaults: 100 ms SDO timeout,
// 3 boot retries at 1000 ms with a 100 ms sub-wait, CAN-FD disabled,
// and both object-limit checking and object names enabled.
func DefaultConfig() Config {
	return Config{
		SDOTimeoutMs:        100,
		NMTBootRetries:      3,
		NMTBootWaitMs:       1000,
		NMTBootSubWaitMs:    100,
		CanFdEnable:         false,
		ObjectLimitChecking: true,
		ObjectNamesEnable:   true,
	}
}
