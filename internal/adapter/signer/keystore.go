// Package signer holds the local wallet: a Sui CLI keystore that lists
// accounts and signs transaction bytes for them.
package signer

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"sui-transfer-gateway/internal/core/domain"

	"golang.org/x/crypto/blake2b"
)

// FlagEd25519 is the Sui signature scheme flag for Ed25519 keys.
const FlagEd25519 byte = 0x00

// intentTransactionData prefixes signed transaction bytes
// (scope TransactionData, version V0, app id Sui).
var intentTransactionData = []byte{0, 0, 0}

// ErrUnknownAccount is returned when signing for an address the keystore lacks.
var ErrUnknownAccount = errors.New("account not in keystore")

type keyPair struct {
	address domain.Address
	private ed25519.PrivateKey
	public  ed25519.PublicKey
}

// Keystore implements ports.Signer over Ed25519 keys.
type Keystore struct {
	keys  []keyPair
	index map[string]int
}

// LoadKeystore reads a sui.keystore file.
func LoadKeystore(path string) (*Keystore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keystore: %w", err)
	}
	return ParseKeystore(data)
}

// ParseKeystore parses the keystore JSON: an array of base64 encoded
// flag || 32-byte private key entries.
func ParseKeystore(data []byte) (*Keystore, error) {
	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding keystore: %w", err)
	}

	seeds := make([][]byte, 0, len(entries))
	for i, entry := range entries {
		raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(entry))
		if err != nil {
			return nil, fmt.Errorf("keystore entry %d: %w", i, err)
		}
		if len(raw) != 1+ed25519.SeedSize {
			return nil, fmt.Errorf("keystore entry %d: want %d bytes, got %d", i, 1+ed25519.SeedSize, len(raw))
		}
		if raw[0] != FlagEd25519 {
			return nil, fmt.Errorf("keystore entry %d: unsupported key scheme 0x%02x", i, raw[0])
		}
		seeds = append(seeds, raw[1:])
	}
	return NewKeystore(seeds...)
}

// NewKeystore builds a keystore from raw Ed25519 seeds. The first seed
// is the default account.
func NewKeystore(seeds ...[]byte) (*Keystore, error) {
	ks := &Keystore{index: make(map[string]int, len(seeds))}
	for i, seed := range seeds {
		if len(seed) != ed25519.SeedSize {
			return nil, fmt.Errorf("seed %d: want %d bytes, got %d", i, ed25519.SeedSize, len(seed))
		}
		priv := ed25519.NewKeyFromSeed(seed)
		pub := priv.Public().(ed25519.PublicKey)
		addr := AddressFromPublicKey(pub)

		if _, dup := ks.index[addr.String()]; dup {
			continue
		}
		ks.add(keyPair{address: addr, private: priv, public: pub})
	}
	return ks, nil
}

func (k *Keystore) add(kp keyPair) {
	k.index[kp.address.String()] = len(k.keys)
	k.keys = append(k.keys, kp)
}

// Generate creates a new Ed25519 key from rand, appends it and returns
// its address.
func (k *Keystore) Generate(rand io.Reader) (domain.Address, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := io.ReadFull(rand, seed); err != nil {
		return "", fmt.Errorf("generating key: %w", err)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	kp := keyPair{address: AddressFromPublicKey(pub), private: priv, public: pub}
	if _, dup := k.index[kp.address.String()]; !dup {
		k.add(kp)
	}
	return kp.address, nil
}

// MarshalJSON encodes the keystore in the sui.keystore file format.
func (k *Keystore) MarshalJSON() ([]byte, error) {
	entries := make([]string, len(k.keys))
	for i, kp := range k.keys {
		raw := append([]byte{FlagEd25519}, kp.private.Seed()...)
		entries[i] = base64.StdEncoding.EncodeToString(raw)
	}
	return json.Marshal(entries)
}

// Save writes the keystore to path, readable by the owner only.
func (k *Keystore) Save(path string) error {
	data, err := json.MarshalIndent(k, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding keystore: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing keystore: %w", err)
	}
	return nil
}

// AddressFromPublicKey derives the Sui address of an Ed25519 public key:
// 0x-prefixed hex of blake2b-256(flag || pubkey).
func AddressFromPublicKey(pub ed25519.PublicKey) domain.Address {
	h, _ := blake2b.New256(nil)
	h.Write([]byte{FlagEd25519})
	h.Write(pub)
	return domain.Address("0x" + hex.EncodeToString(h.Sum(nil)))
}

// Accounts returns the held addresses in keystore order.
func (k *Keystore) Accounts() []domain.Address {
	out := make([]domain.Address, len(k.keys))
	for i, kp := range k.keys {
		out[i] = kp.address
	}
	return out
}

// Lookup matches addr case-insensitively, with or without the 0x prefix.
func (k *Keystore) Lookup(addr domain.Address) (domain.Address, bool) {
	i, ok := k.index[normalize(addr)]
	if !ok {
		return "", false
	}
	return k.keys[i].address, true
}

// Sign signs txBytes for addr and returns the serialized signature
// base64(flag || signature || pubkey).
func (k *Keystore) Sign(addr domain.Address, txBytes []byte) (string, error) {
	i, ok := k.index[normalize(addr)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownAccount, addr)
	}
	kp := k.keys[i]

	digest := blake2b.Sum256(append(append([]byte{}, intentTransactionData...), txBytes...))
	sig := ed25519.Sign(kp.private, digest[:])

	serialized := make([]byte, 0, 1+len(sig)+len(kp.public))
	serialized = append(serialized, FlagEd25519)
	serialized = append(serialized, sig...)
	serialized = append(serialized, kp.public...)
	return base64.StdEncoding.EncodeToString(serialized), nil
}

func normalize(addr domain.Address) string {
	s := strings.ToLower(strings.TrimSpace(addr.String()))
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	return s
}
