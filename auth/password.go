package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
)

// Argon2id parameters: 64 MiB memory, 2 iterations, single lane. Hashes are
// stored in the PHC string format so the parameters travel with the digest:
//
//	$argon2id$v=19$m=65536,t=2,p=1$<base64-salt>$<base64-hash>
const (
	argonMemory  = 64 * 1024
	argonTime    = 2
	argonThreads = 1
	argonSaltLen = 16
	argonKeyLen  = 32
)

// HashPassword derives an argon2id digest of password with a fresh random
// salt and encodes it in PHC format.
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(err, "[HashPassword] rand.Read")
	}

	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))
	return encoded, nil
}

// VerifyPassword checks password against a PHC-encoded argon2id digest. A
// mismatch is (false, nil); an error means the stored digest itself could not
// be used and should be surfaced, not treated as a bad password.
func VerifyPassword(encodedHash, password string) (bool, error) {
	var version, memory, time, threads int

	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, errors.New("[VerifyPassword] not an argon2id hash")
	}
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, errors.Wrap(err, "[VerifyPassword] parse version")
	}
	if version != argon2.Version {
		return false, errors.Errorf("[VerifyPassword] unsupported argon2 version %d", version)
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, errors.Wrap(err, "[VerifyPassword] parse parameters")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, errors.Wrap(err, "[VerifyPassword] decode salt")
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, errors.Wrap(err, "[VerifyPassword] decode hash")
	}

	key := argon2.IDKey([]byte(password), salt, uint32(time), uint32(memory), uint8(threads), uint32(len(expected)))
	return ConstantTimeEqual(key, expected), nil
}
