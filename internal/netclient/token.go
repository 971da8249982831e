package netclient

import (
	"github.com/google/uuid"
	"github.com/zalando/go-keyring"
)

const (
	keyringService = "skopio"
	keyringAccount = "bearer_token"
)

// ResolveAuthToken returns the bearer token this process should send on
// every request. Dev builds mint a fresh random token each run (nothing
// else needs to agree on it locally); release builds persist one in the
// OS keychain via zalando/go-keyring so the token survives a restart and
// is never written to the config file, matching Transport::detect()'s
// DevTcp/ProdUds split in crates/common/src/client.rs.
func ResolveAuthToken(release bool) (string, error) {
	fresh := uuid.NewString()
	if !release {
		return fresh, nil
	}

	existing, err := keyring.Get(keyringService, keyringAccount)
	if err == nil && existing != "" {
		return existing, nil
	}

	if err := keyring.Set(keyringService, keyringAccount, fresh); err != nil {
		return "", err
	}
	return fresh, nil
}
