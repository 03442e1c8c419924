// Package gtscmd defines the wire-level data model of the DSME GTS
// management command frames: the GTSManagement header, the GTS-REQUEST and
// GTS-REPLY/NOTIFY payloads, the slot allocation bitmap specification, and
// the akita Msg that carries them across a Port.
package gtscmd

// ShortAddress is an IEEE 802.15.4 short (16-bit) device address.
type ShortAddress uint16

// BroadcastAddress is the reserved short address used to address every
// one-hop neighbor at once. Positive REPLY and every NOTIFY are sent here.
const BroadcastAddress ShortAddress = 0xFFFF

// NoShortAddress marks the absence of a partner address in per-FSM data,
// e.g. once a RESPONSE_CMD_FOR_ME/NOTIFY_CMD_FOR_ME has been claimed.
const NoShortAddress ShortAddress = 0xFFFE
