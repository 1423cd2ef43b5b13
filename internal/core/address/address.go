// Package address derives deterministic lookup keys for escrow records.
//
// A key is the BLAKE2b-256 digest of a namespace tag and the record's natural
// keys. Every seed is length-prefixed before hashing so that ("ab","c") and
// ("a","bc") never collide.
package address

import (
	"encoding/binary"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/blake2b"
)

// Namespace tags.
const (
	TagConfig   = "config"
	TagVehicle  = "vehicle"
	TagDelivery = "delivery"
	TagEscrow   = "escrow"
)

// ErrKeyMismatch is returned when a supplied key does not match the key
// derived from its seeds.
var ErrKeyMismatch = errors.New("lookup key does not match derived key")

// Key is a hex-encoded 32-byte lookup key.
type Key string

// String returns the hex form.
func (k Key) String() string {
	return string(k)
}

// Derive hashes the seeds into a Key.
func Derive(seeds ...[]byte) Key {
	h, _ := blake2b.New256(nil) // nil key never errors
	var prefix [4]byte
	for _, s := range seeds {
		binary.BigEndian.PutUint32(prefix[:], uint32(len(s)))
		h.Write(prefix[:])
		h.Write(s)
	}
	return Key(hex.EncodeToString(h.Sum(nil)))
}

// Verify checks that k is the key derived from seeds.
func Verify(k Key, seeds ...[]byte) error {
	if Derive(seeds...) != k {
		return ErrKeyMismatch
	}
	return nil
}

// ConfigSeeds returns the seeds of the platform config singleton.
func ConfigSeeds() [][]byte {
	return [][]byte{[]byte(TagConfig)}
}

// VehicleSeeds returns the seeds of a vehicle record.
func VehicleSeeds(vehicleID string) [][]byte {
	return [][]byte{[]byte(TagVehicle), []byte(vehicleID)}
}

// DeliverySeeds returns the seeds of a delivery record.
func DeliverySeeds(customer string, deliveryID uint64) [][]byte {
	return [][]byte{[]byte(TagDelivery), []byte(customer), le64(deliveryID)}
}

// EscrowSeeds returns the seeds of the escrow balance paired with a delivery.
func EscrowSeeds(customer string, deliveryID uint64) [][]byte {
	return [][]byte{[]byte(TagEscrow), []byte(customer), le64(deliveryID)}
}

// ConfigKey returns the key of the singleton platform config.
func ConfigKey() Key {
	return Derive(ConfigSeeds()...)
}

// VehicleKey returns the key of the vehicle registered under vehicleID.
func VehicleKey(vehicleID string) Key {
	return Derive(VehicleSeeds(vehicleID)...)
}

// DeliveryKey returns the key of a customer's delivery order.
func DeliveryKey(customer string, deliveryID uint64) Key {
	return Derive(DeliverySeeds(customer, deliveryID)...)
}

// EscrowKey returns the address of the escrow account that holds a delivery's payment.
func EscrowKey(customer string, deliveryID uint64) Key {
	return Derive(EscrowSeeds(customer, deliveryID)...)
}

func le64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}
