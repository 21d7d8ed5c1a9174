package types

import (
	"encoding/json"
	"fmt"
)

// ByteArray is raw bytes that marshal as a JSON array of numbers rather than
// base64, matching the keystore file layout.
type ByteArray []byte

// MarshalJSON encodes the bytes as [n, n, ...].
func (b ByteArray) MarshalJSON() ([]byte, error) {
	nums := make([]uint16, len(b))
	for i, v := range b {
		nums[i] = uint16(v)
	}
	return json.Marshal(nums)
}

// UnmarshalJSON mirrors MarshalJSON and rejects values outside 0..255.
func (b *ByteArray) UnmarshalJSON(data []byte) error {
	var nums []int
	if err := json.Unmarshal(data, &nums); err != nil {
		return err
	}
	out := make([]byte, len(nums))
	for i, n := range nums {
		if n < 0 || n > 0xff {
			return fmt.Errorf("byte array: value %d at index %d out of range", n, i)
		}
		out[i] = byte(n)
	}
	*b = out
	return nil
}

// EncryptedEnvelope is the on-disk keystore: every account's secret key
// sealed under one password.
type EncryptedEnvelope struct {
	Salt          string    `json:"salt"`
	PasswordHash  string    `json:"password_hash"`
	Nonce         ByteArray `json:"nonce"`
	EncryptedData ByteArray `json:"encrypted_data"`
	Version       uint32    `json:"version"`
}
