package identity

import (
	"fmt"

	"github.com/jskoiz/zeraprivacy-sub001/internal/keystore"
	"github.com/jskoiz/zeraprivacy-sub001/stealth"
)

// Load decrypts a .zpk file and rebuilds the full meta-address.
// password must be []byte for security (caller should zero it after use)
func Load(filePath string, password []byte) (*stealth.MetaAddress, error) {
	_, material, err := keystore.Read(filePath, password)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	defer func() {
		clear(material.ViewPriv)
		clear(material.SpendPriv)
	}()

	meta, err := stealth.MetaAddressFromSecrets(material.ViewPriv, material.SpendPriv)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild meta-address: %w", err)
	}
	return meta, nil
}

// PublicAddress reads the public meta-address from a .zpk file without
// decrypting it.
func PublicAddress(filePath string) (string, error) {
	return keystore.ReadMetaAddress(filePath)
}
