package store

import (
	"bytes"

	"github.com/MKhiriev/go-secrets-manager/models"
)

func testConfiguration() models.Configuration {
	return models.Configuration{
		Hostname:          "keepersecurity.com",
		ClientID:          bytes.Repeat([]byte{0x01}, 64),
		PrivateKey:        bytes.Repeat([]byte{0x02}, 138),
		AppKey:            bytes.Repeat([]byte{0x03}, 32),
		ServerPublicKeyID: "7",
		AppOwnerPublicKey: bytes.Repeat([]byte{0x04}, 65),
	}
}
