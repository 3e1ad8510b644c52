package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	SchemeBcrypt   = "bcrypt"
	SchemeArgon2id = "argon2id"
)

// Argon2Params are the argon2id cost parameters encoded into every digest.
type Argon2Params struct {
	Memory  uint32
	Time    uint32
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}

// DefaultArgon2Params follows the RFC 9106 second recommended option.
var DefaultArgon2Params = Argon2Params{Memory: 64 * 1024, Time: 3, Threads: 4, SaltLen: 16, KeyLen: 32}

// HasherConfig selects the scheme new digests are produced with. Digests of
// every other accepted scheme still verify but are flagged for upgrade.
type HasherConfig struct {
	Scheme     string
	BcryptCost int
	Argon2     Argon2Params
}

// PasswordHasher produces and checks self-describing password digests.
type PasswordHasher struct {
	cfg HasherConfig
}

func NewPasswordHasher(cfg HasherConfig) (*PasswordHasher, error) {
	switch cfg.Scheme {
	case "":
		cfg.Scheme = SchemeBcrypt
	case SchemeBcrypt, SchemeArgon2id:
	default:
		return nil, fmt.Errorf("password hasher: unsupported scheme %q", cfg.Scheme)
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("password hasher: bcrypt cost %d out of range", cfg.BcryptCost)
	}
	if cfg.Argon2 == (Argon2Params{}) {
		cfg.Argon2 = DefaultArgon2Params
	}
	return &PasswordHasher{cfg: cfg}, nil
}

// Hash returns a salted digest of plaintext in the configured scheme.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	if h.cfg.Scheme == SchemeArgon2id {
		return hashArgon2id(plaintext, h.cfg.Argon2)
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cfg.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest and, on a match, whether
// the digest was produced by a deprecated scheme or weaker parameters than
// the current configuration. Unknown or corrupt digests never match.
func (h *PasswordHasher) Verify(plaintext, digest string) (ok, needsUpgrade bool) {
	switch schemeOf(digest) {
	case SchemeBcrypt:
		if bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) != nil {
			return false, false
		}
		if h.cfg.Scheme != SchemeBcrypt {
			return true, true
		}
		cost, err := bcrypt.Cost([]byte(digest))
		return true, err != nil || cost < h.cfg.BcryptCost
	case SchemeArgon2id:
		params, salt, key, err := decodeArgon2id(digest)
		if err != nil {
			return false, false
		}
		candidate := argon2.IDKey([]byte(plaintext), salt, params.Time, params.Memory, params.Threads, uint32(len(key)))
		if subtle.ConstantTimeCompare(candidate, key) != 1 {
			return false, false
		}
		if h.cfg.Scheme != SchemeArgon2id {
			return true, true
		}
		cur := h.cfg.Argon2
		return true, params.Memory < cur.Memory || params.Time < cur.Time || uint32(len(key)) < cur.KeyLen
	default:
		return false, false
	}
}

func schemeOf(digest string) string {
	switch {
	case strings.HasPrefix(digest, "$2a$"), strings.HasPrefix(digest, "$2b$"), strings.HasPrefix(digest, "$2y$"):
		return SchemeBcrypt
	case strings.HasPrefix(digest, "$argon2id$"):
		return SchemeArgon2id
	default:
		return ""
	}
}

// hashArgon2id encodes in the PHC string format:
//
//	$argon2id$v=19$m=65536,t=3,p=4$<salt>$<key>
func hashArgon2id(plaintext string, p Argon2Params) (string, error) {
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("argon2id salt: %w", err)
	}
	key := argon2.IDKey([]byte(plaintext), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

var errBadArgon2Digest = errors.New("malformed argon2id digest")

func decodeArgon2id(digest string) (Argon2Params, []byte, []byte, error) {
	var p Argon2Params
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[1] != SchemeArgon2id {
		return p, nil, nil, errBadArgon2Digest
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, errBadArgon2Digest
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return p, nil, nil, errBadArgon2Digest
	}
	if p.Memory == 0 || p.Time == 0 || p.Threads == 0 {
		return p, nil, nil, errBadArgon2Digest
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return p, nil, nil, errBadArgon2Digest
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, errBadArgon2Digest
	}
	p.SaltLen = uint32(len(salt))
	p.KeyLen = uint32(len(key))
	return p, salt, key, nil
}
