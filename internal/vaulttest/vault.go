// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package vaulttest runs an in-process vault that speaks the secrets
// manager wire protocol. Tests seed it with records, folders and files
// through the fixture methods and point a client configuration at URL.
//
// All stored values are encrypted exactly like the real vault stores them,
// so a client talking to it exercises the full key hierarchy.
package vaulttest

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"

	"github.com/MKhiriev/go-secrets-manager/internal/crypto"
	"github.com/MKhiriev/go-secrets-manager/internal/logger"
	"github.com/MKhiriev/go-secrets-manager/internal/utils"
	"github.com/MKhiriev/go-secrets-manager/models"
)

// InitialKeyID is the id of the server key pair a new vault starts with.
const InitialKeyID = "7"

type serverKey struct {
	private []byte
	public  []byte
}

type storedRecord struct {
	resp         models.RecordResponse
	sharedFolder string
}

type sharedFolder struct {
	uid string
	key []byte
}

// Vault is a fake vault server. Its methods are safe for concurrent use.
type Vault struct {
	t        testing.TB
	keychain crypto.KeyChainService
	uids     *utils.UIDGenerator
	server   *httptest.Server
	logger   *logger.Logger

	mu            sync.Mutex
	keys          map[string]serverKey
	activeKeyID   string
	nextKeyID     int
	appKey        []byte
	ownerPrivate  []byte
	ownerPublic   []byte
	clients       map[string][]byte // client id -> public key
	tokens        map[string][]byte // client id -> one-time token
	records       map[string]*storedRecord
	recordOrder   []string
	sharedFolders []sharedFolder
	folders       []models.FolderResponse
	folderKeys    map[string][]byte
	blobs         map[string][]byte // file uid -> encrypted content
	uploads       map[string]string // file uid -> owner record uid
	failures      []int
	failUploads   bool
	commands      []string
	warnings      []string
}

// New starts a vault and registers its shutdown with t.Cleanup.
func New(t testing.TB) *Vault {
	t.Helper()

	keychain := crypto.NewKeyChainService()
	v := &Vault{
		t:           t,
		keychain:    keychain,
		uids:        utils.NewUIDGenerator(),
		logger:      logger.Nop(),
		keys:        make(map[string]serverKey),
		nextKeyID:   8,
		clients:     make(map[string][]byte),
		tokens:      make(map[string][]byte),
		records:     make(map[string]*storedRecord),
		folderKeys:  make(map[string][]byte),
		blobs:       make(map[string][]byte),
		uploads:     make(map[string]string),
		activeKeyID: InitialKeyID,
	}

	v.keys[InitialKeyID] = v.newServerKey()
	v.appKey = v.must(keychain.GenerateKey())
	v.ownerPrivate, v.ownerPublic = v.mustPair()

	v.server = httptest.NewServer(v.routes())
	t.Cleanup(v.server.Close)
	return v
}

// URL is the base URL to use as a configuration hostname.
func (v *Vault) URL() string {
	return v.server.URL
}

// AppKey returns the application key.
func (v *Vault) AppKey() []byte {
	v.mu.Lock()
	defer v.mu.Unlock()
	return bytes.Clone(v.appKey)
}

// OwnerPrivateKey returns the application owner's private key.
func (v *Vault) OwnerPrivateKey() []byte {
	return bytes.Clone(v.ownerPrivate)
}

// PublicKeys returns every server public key by id.
func (v *Vault) PublicKeys() map[string][]byte {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make(map[string][]byte, len(v.keys))
	for id, k := range v.keys {
		out[id] = bytes.Clone(k.public)
	}
	return out
}

// ClientConfiguration registers a new bound client and returns its
// configuration.
func (v *Vault) ClientConfiguration() models.Configuration {
	private, public := v.mustPair()
	clientID := v.must(v.keychain.GenerateKey())

	v.mu.Lock()
	defer v.mu.Unlock()

	v.clients[encode(clientID)] = public
	return models.Configuration{
		Hostname:          v.server.URL,
		ClientID:          clientID,
		PrivateKey:        private,
		AppKey:            bytes.Clone(v.appKey),
		ServerPublicKeyID: InitialKeyID,
		AppOwnerPublicKey: bytes.Clone(v.ownerPublic),
	}
}

// AddOneTimeToken registers a one-time token and returns its key part as
// unpadded URL-safe base64.
func (v *Vault) AddOneTimeToken() string {
	token := v.must(v.keychain.GenerateKey())

	v.mu.Lock()
	defer v.mu.Unlock()

	v.tokens[encode(v.keychain.ClientIDFromToken(token))] = token
	return base64.RawURLEncoding.EncodeToString(token)
}

// AddRecord stores data as a record shared directly with the application.
func (v *Vault) AddRecord(uid string, data models.RecordData) {
	v.mu.Lock()
	defer v.mu.Unlock()

	recordKey := v.must(v.keychain.GenerateKey())
	v.storeRecord(uid, "", models.RecordResponse{
		RecordUID:  uid,
		RecordKey:  v.must(v.keychain.Encrypt(recordKey, v.appKey)),
		Data:       v.must(v.keychain.EncryptJSON(data, recordKey)),
		Revision:   1,
		IsEditable: true,
	})
}

// AddSharedFolder creates a shared folder whose key is wrapped by the app
// key.
func (v *Vault) AddSharedFolder(uid string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.sharedFolders = append(v.sharedFolders, sharedFolder{uid: uid, key: v.must(v.keychain.GenerateKey())})
}

// AddSharedRecord stores data as a record delivered through the shared
// folder folderUID. Its key is wrapped by the folder key.
func (v *Vault) AddSharedRecord(folderUID, uid string, data models.RecordData) {
	v.mu.Lock()
	defer v.mu.Unlock()

	i := slices.IndexFunc(v.sharedFolders, func(f sharedFolder) bool { return f.uid == folderUID })
	if i < 0 {
		v.t.Fatalf("vaulttest: unknown shared folder %s", folderUID)
	}

	recordKey := v.must(v.keychain.GenerateKey())
	v.storeRecord(uid, folderUID, models.RecordResponse{
		RecordUID:  uid,
		RecordKey:  v.must(v.keychain.Encrypt(recordKey, v.sharedFolders[i].key)),
		Data:       v.must(v.keychain.EncryptJSON(data, recordKey)),
		Revision:   1,
		IsEditable: false,
		FolderUID:  folderUID,
	})
}

// AddRawRecord stores a record response as is, e.g. with corrupt data.
func (v *Vault) AddRawRecord(resp models.RecordResponse) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.storeRecord(resp.RecordUID, "", resp)
}

// AddFile attaches content to the record uid and returns the file uid. The
// record's fileRef field and revision are updated like add_file does.
func (v *Vault) AddFile(recordUID string, meta models.FileMetadata, content []byte) string {
	v.mu.Lock()
	defer v.mu.Unlock()

	rec, ok := v.records[recordUID]
	if !ok {
		v.t.Fatalf("vaulttest: unknown record %s", recordUID)
	}
	recordKey := v.must(v.recordKey(rec))

	var data models.RecordData
	if err := v.keychain.DecryptJSON(rec.resp.Data, recordKey, &data); err != nil {
		v.t.Fatalf("vaulttest: decrypt record %s: %v", recordUID, err)
	}

	fileUID := v.uids.Generate()
	fileKey := v.must(v.keychain.GenerateKey())
	meta.Size = int64(len(content))
	v.blobs[fileUID] = v.must(v.keychain.Encrypt(content, fileKey))

	data = appendFileRef(data, fileUID)
	rec.resp.Data = v.must(v.keychain.EncryptJSON(data, recordKey))
	rec.resp.Files = append(rec.resp.Files, models.FileResponse{
		FileUID: fileUID,
		FileKey: v.must(v.keychain.Encrypt(fileKey, recordKey)),
		Data:    v.must(v.keychain.EncryptJSON(meta, fileKey)),
		URL:     v.fileURL(fileUID),
	})
	rec.resp.Revision++
	return fileUID
}

// AddFolder creates a folder. Its key is wrapped by the parent's key, or by
// the app key when parentUID is empty.
func (v *Vault) AddFolder(uid, parentUID, name string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	wrapping := v.appKey
	if parentUID != "" {
		k, ok := v.folderKeys[parentUID]
		if !ok {
			v.t.Fatalf("vaulttest: unknown parent folder %s", parentUID)
		}
		wrapping = k
	}

	folderKey := v.must(v.keychain.GenerateKey())
	v.folderKeys[uid] = folderKey
	v.folders = append(v.folders, models.FolderResponse{
		FolderUID: uid,
		FolderKey: v.must(v.keychain.Encrypt(folderKey, wrapping)),
		Data:      v.must(v.keychain.EncryptJSON(models.FolderData{Name: name}, folderKey)),
		Parent:    parentUID,
	})
}

// AddRawFolder stores a folder response as is, e.g. to build a cycle.
func (v *Vault) AddRawFolder(resp models.FolderResponse) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.folders = append(v.folders, resp)
}

// AddWarning makes every get_secret response carry msg.
func (v *Vault) AddWarning(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.warnings = append(v.warnings, msg)
}

// RotateKey adds a new server key pair, makes it the active one and
// returns its id. Requests wrapped to other keys are answered with a key
// rotation error.
func (v *Vault) RotateKey() string {
	k := v.newServerKey()

	v.mu.Lock()
	defer v.mu.Unlock()

	id := fmt.Sprint(v.nextKeyID)
	v.nextKeyID++
	v.keys[id] = k
	v.activeKeyID = id
	return id
}

// FailNext makes the next len(statuses) vault commands fail with the given
// HTTP statuses, in order.
func (v *Vault) FailNext(statuses ...int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.failures = append(v.failures, statuses...)
}

// FailUploads makes the file storage endpoint reject uploads.
func (v *Vault) FailUploads(fail bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.failUploads = fail
}

// Commands lists the commands served so far, including failed ones.
func (v *Vault) Commands() []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return slices.Clone(v.commands)
}

// Record returns the decrypted data and revision of the record uid.
func (v *Vault) Record(uid string) (models.RecordData, int64, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	rec, ok := v.records[uid]
	if !ok {
		return models.RecordData{}, 0, false
	}

	var data models.RecordData
	if err := v.keychain.DecryptJSON(rec.resp.Data, v.must(v.recordKey(rec)), &data); err != nil {
		v.t.Fatalf("vaulttest: decrypt record %s: %v", uid, err)
	}
	return data, rec.resp.Revision, true
}

// FileCount returns how many files the record uid has registered.
func (v *Vault) FileCount(uid string) int {
	v.mu.Lock()
	defer v.mu.Unlock()

	if rec, ok := v.records[uid]; ok {
		return len(rec.resp.Files)
	}
	return 0
}

func (v *Vault) storeRecord(uid, folderUID string, resp models.RecordResponse) {
	if _, exists := v.records[uid]; !exists {
		v.recordOrder = append(v.recordOrder, uid)
	}
	v.records[uid] = &storedRecord{resp: resp, sharedFolder: folderUID}
}

func (v *Vault) recordKey(rec *storedRecord) ([]byte, error) {
	wrapping := v.appKey
	if rec.sharedFolder != "" {
		for _, f := range v.sharedFolders {
			if f.uid == rec.sharedFolder {
				wrapping = f.key
			}
		}
	}
	return v.keychain.Decrypt(rec.resp.RecordKey, wrapping)
}

func (v *Vault) fileURL(fileUID string) string {
	return v.server.URL + "/storage/files/" + fileUID
}

func (v *Vault) newServerKey() serverKey {
	private, public := v.mustPair()
	return serverKey{private: private, public: public}
}

func (v *Vault) mustPair() ([]byte, []byte) {
	private, public, err := v.keychain.GenerateKeyPair()
	if err != nil {
		v.t.Fatalf("vaulttest: generate key pair: %v", err)
	}
	return private, public
}

func (v *Vault) must(b []byte, err error) []byte {
	if err != nil {
		v.t.Fatalf("vaulttest: %v", err)
	}
	return b
}

func appendFileRef(data models.RecordData, fileUID string) models.RecordData {
	data = data.Clone()
	ref := models.StringValue(fileUID)
	for i, f := range data.Fields {
		if f.Type == models.FieldTypeFileRef {
			data.Fields[i].Value = append(data.Fields[i].Value, ref)
			return data
		}
	}
	data.Fields = append(data.Fields, models.Field{Type: models.FieldTypeFileRef, Value: []models.FieldValue{ref}})
	return data
}

func encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}
