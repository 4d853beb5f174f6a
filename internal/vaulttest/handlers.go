package vaulttest

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-secrets-manager/internal/logger"
	"github.com/MKhiriev/go-secrets-manager/internal/utils"
	"github.com/MKhiriev/go-secrets-manager/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	maxUploadMemory = 32 << 20
	uploadStatus    = http.StatusCreated
)

type apiError struct {
	status  int
	code    string
	message string
}

func fail(status int, code, message string) *apiError {
	return &apiError{status: status, code: code, message: message}
}

// envelope holds the fields every command payload carries.
type envelope struct {
	ClientVersion string `json:"clientVersion"`
	ClientID      []byte `json:"clientId"`
	PublicKey     []byte `json:"publicKey"`
}

func (v *Vault) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(v.withTraceID)
	router.Use(v.withLogging)

	router.Get("/api/rest/sm/v1/public_keys", v.publicKeys)
	router.Post("/api/rest/sm/v1/{command}", v.command)

	router.Post("/storage/upload/{fileUID}", v.storeUpload)
	router.Get("/storage/files/{fileUID}", v.serveFile)

	return router
}

func (v *Vault) publicKeys(w http.ResponseWriter, _ *http.Request) {
	_, _ = utils.WriteJSON(w, models.PublicKeysResponse{Keys: v.PublicKeys()}, http.StatusOK)
}

func (v *Vault) command(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	command := chi.URLParam(r, "command")

	v.mu.Lock()
	defer v.mu.Unlock()

	v.commands = append(v.commands, command)

	if len(v.failures) > 0 {
		status := v.failures[0]
		v.failures = v.failures[1:]
		writeError(w, fail(status, "injected", "injected failure"))
		return
	}

	keyID := r.Header.Get("PublicKeyId")
	if keyID != v.activeKeyID {
		active, _ := strconv.Atoi(v.activeKeyID)
		_, _ = utils.WriteJSON(w, models.ErrorResponse{Error: "key", KeyID: active}, http.StatusUnauthorized)
		return
	}

	encryptedKey, err := base64.StdEncoding.DecodeString(r.Header.Get("TransmissionKey"))
	if err != nil {
		writeError(w, fail(http.StatusBadRequest, "bad_request", "transmission key is not base64"))
		return
	}
	transmissionKey, err := v.keychain.DecryptWithPrivateKey(encryptedKey, v.keys[keyID].private)
	if err != nil {
		writeError(w, fail(http.StatusBadRequest, "bad_request", "transmission key cannot be unwrapped"))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, fail(http.StatusBadRequest, "bad_request", "unreadable body"))
		return
	}
	plain, err := v.keychain.Decrypt(body, transmissionKey)
	if err != nil {
		writeError(w, fail(http.StatusBadRequest, "bad_request", "payload cannot be decrypted"))
		return
	}

	var env envelope
	if err := json.Unmarshal(plain, &env); err != nil || env.ClientVersion == "" || len(env.ClientID) == 0 {
		writeError(w, fail(http.StatusBadRequest, "bad_request", "payload lacks client version or id"))
		return
	}

	clientID := encode(env.ClientID)
	publicKey, bound := v.clients[clientID]
	var token []byte
	if !bound {
		t, ok := v.tokens[clientID]
		if !ok || command != "get_secret" || len(env.PublicKey) == 0 {
			writeError(w, fail(http.StatusForbidden, "access_denied", "unknown client"))
			return
		}
		publicKey, token = env.PublicKey, t
	}

	signature, err := parseSignature(r.Header.Get("Authorization"))
	if err != nil || !v.keychain.Verify(slices.Concat(encryptedKey, body), signature, publicKey) {
		writeError(w, fail(http.StatusUnauthorized, "invalid_signature", "signature is invalid"))
		return
	}

	if token != nil {
		v.clients[clientID] = bytes.Clone(publicKey)
		delete(v.tokens, clientID)
		log.Debug().Str("command", command).Msg("one-time token bound")
	}

	resp, apiErr := v.dispatch(command, plain, token)
	if apiErr != nil {
		log.Debug().Str("command", command).Int("status", apiErr.status).Msg(apiErr.message)
		writeError(w, apiErr)
		return
	}

	if resp == nil {
		_, _ = utils.WriteBlob(w, nil, http.StatusOK)
		return
	}
	out, err := v.keychain.EncryptJSON(resp, transmissionKey)
	if err != nil {
		writeError(w, fail(http.StatusInternalServerError, "internal", err.Error()))
		return
	}
	_, _ = utils.WriteBlob(w, out, http.StatusOK)
}

func (v *Vault) dispatch(command string, plain, token []byte) (any, *apiError) {
	switch command {
	case "get_secret":
		var p models.GetPayload
		if err := json.Unmarshal(plain, &p); err != nil {
			return nil, fail(http.StatusBadRequest, "bad_request", err.Error())
		}
		return v.getSecret(p, token)
	case "get_folders":
		return models.FoldersResponse{Folders: slices.Clone(v.folders)}, nil
	case "create_secret":
		var p models.CreatePayload
		if err := json.Unmarshal(plain, &p); err != nil {
			return nil, fail(http.StatusBadRequest, "bad_request", err.Error())
		}
		return nil, v.createSecret(p)
	case "update_secret":
		var p models.UpdatePayload
		if err := json.Unmarshal(plain, &p); err != nil {
			return nil, fail(http.StatusBadRequest, "bad_request", err.Error())
		}
		return v.updateSecret(p)
	case "delete_secret":
		var p models.DeletePayload
		if err := json.Unmarshal(plain, &p); err != nil {
			return nil, fail(http.StatusBadRequest, "bad_request", err.Error())
		}
		return nil, v.deleteSecrets(p)
	case "file_upload":
		var p models.FileUploadPayload
		if err := json.Unmarshal(plain, &p); err != nil {
			return nil, fail(http.StatusBadRequest, "bad_request", err.Error())
		}
		return v.requestUpload(p)
	case "add_file":
		var p models.AddFilePayload
		if err := json.Unmarshal(plain, &p); err != nil {
			return nil, fail(http.StatusBadRequest, "bad_request", err.Error())
		}
		return v.addFile(p)
	default:
		return nil, fail(http.StatusNotFound, "unknown_command", command)
	}
}

func (v *Vault) getSecret(p models.GetPayload, token []byte) (any, *apiError) {
	resp := models.SecretsResponse{Warnings: slices.Clone(v.warnings)}
	if token != nil {
		wrapped, err := v.keychain.Encrypt(v.appKey, token)
		if err != nil {
			return nil, fail(http.StatusInternalServerError, "internal", err.Error())
		}
		resp.EncryptedAppKey = wrapped
		resp.AppOwnerPublicKey = bytes.Clone(v.ownerPublic)
	}

	shared := make(map[string][]models.RecordResponse)
	for _, uid := range v.recordOrder {
		if len(p.RequestedRecords) > 0 && !slices.Contains(p.RequestedRecords, uid) {
			continue
		}
		rec := v.records[uid]
		if rec.sharedFolder != "" {
			shared[rec.sharedFolder] = append(shared[rec.sharedFolder], rec.resp)
			continue
		}
		resp.Records = append(resp.Records, rec.resp)
	}

	for _, f := range v.sharedFolders {
		records, ok := shared[f.uid]
		if !ok {
			continue
		}
		wrapped, err := v.keychain.Encrypt(f.key, v.appKey)
		if err != nil {
			return nil, fail(http.StatusInternalServerError, "internal", err.Error())
		}
		resp.Folders = append(resp.Folders, models.SharedFolderResponse{
			FolderUID: f.uid,
			FolderKey: wrapped,
			Records:   records,
		})
	}
	return resp, nil
}

func (v *Vault) createSecret(p models.CreatePayload) *apiError {
	if p.RecordUID == "" {
		return fail(http.StatusBadRequest, "bad_request", "record uid is empty")
	}
	if _, exists := v.records[p.RecordUID]; exists {
		return fail(http.StatusBadRequest, "bad_request", "record already exists")
	}
	if p.FolderUID != "" {
		if _, ok := v.folderKeys[p.FolderUID]; !ok {
			return fail(http.StatusNotFound, "not_found", "folder not found")
		}
	}

	recordKey, err := v.keychain.Decrypt(p.RecordKey, v.appKey)
	if err != nil {
		return fail(http.StatusBadRequest, "bad_request", "record key is not wrapped by the app key")
	}
	ownerKey, err := v.keychain.DecryptWithPrivateKey(p.OwnerRecordKey, v.ownerPrivate)
	if err != nil || !bytes.Equal(ownerKey, recordKey) {
		return fail(http.StatusBadRequest, "bad_request", "owner record key does not match")
	}
	if _, err := v.keychain.Decrypt(p.Data, recordKey); err != nil {
		return fail(http.StatusBadRequest, "bad_request", "record data is not encrypted by the record key")
	}

	v.storeRecord(p.RecordUID, "", models.RecordResponse{
		RecordUID:  p.RecordUID,
		RecordKey:  p.RecordKey,
		Data:       p.Data,
		Revision:   1,
		IsEditable: true,
		FolderUID:  p.FolderUID,
	})
	return nil
}

func (v *Vault) updateSecret(p models.UpdatePayload) (any, *apiError) {
	rec, ok := v.records[p.RecordUID]
	if !ok {
		return nil, fail(http.StatusNotFound, "not_found", "record not found")
	}
	if !rec.resp.IsEditable {
		return nil, fail(http.StatusForbidden, "access_denied", "record is read-only")
	}
	if p.Revision != rec.resp.Revision {
		return nil, fail(http.StatusConflict, "out_of_sync", "record revision is stale")
	}
	recordKey, err := v.recordKey(rec)
	if err != nil {
		return nil, fail(http.StatusInternalServerError, "internal", err.Error())
	}
	if _, err := v.keychain.Decrypt(p.Data, recordKey); err != nil {
		return nil, fail(http.StatusBadRequest, "bad_request", "record data is not encrypted by the record key")
	}

	rec.resp.Data = p.Data
	rec.resp.Revision++
	return models.UpdateResponse{Revision: rec.resp.Revision}, nil
}

func (v *Vault) deleteSecrets(p models.DeletePayload) *apiError {
	for _, uid := range p.RecordUIDs {
		if _, ok := v.records[uid]; !ok {
			return fail(http.StatusNotFound, "not_found", "record "+uid+" not found")
		}
	}
	for _, uid := range p.RecordUIDs {
		delete(v.records, uid)
		v.recordOrder = slices.DeleteFunc(v.recordOrder, func(s string) bool { return s == uid })
	}
	return nil
}

func (v *Vault) requestUpload(p models.FileUploadPayload) (any, *apiError) {
	if _, ok := v.records[p.OwnerRecordUID]; !ok {
		return nil, fail(http.StatusNotFound, "not_found", "owner record not found")
	}
	if p.FileUID == "" {
		return nil, fail(http.StatusBadRequest, "bad_request", "file uid is empty")
	}

	v.uploads[p.FileUID] = p.OwnerRecordUID
	params, _ := json.Marshal(map[string]string{"key": p.FileUID, "acl": "private"})
	return models.FileUploadResponse{
		URL:               v.server.URL + "/storage/upload/" + p.FileUID,
		Parameters:        string(params),
		SuccessStatusCode: uploadStatus,
	}, nil
}

func (v *Vault) addFile(p models.AddFilePayload) (any, *apiError) {
	rec, ok := v.records[p.OwnerRecordUID]
	if !ok {
		return nil, fail(http.StatusNotFound, "not_found", "owner record not found")
	}
	if v.uploads[p.FileUID] != p.OwnerRecordUID {
		return nil, fail(http.StatusBadRequest, "bad_request", "no upload slot for file")
	}
	if _, uploaded := v.blobs[p.FileUID]; !uploaded {
		return nil, fail(http.StatusBadRequest, "bad_request", "file content was not uploaded")
	}
	if p.OwnerRecordRevision != rec.resp.Revision {
		return nil, fail(http.StatusConflict, "out_of_sync", "owner record revision is stale")
	}

	recordKey, err := v.recordKey(rec)
	if err != nil {
		return nil, fail(http.StatusInternalServerError, "internal", err.Error())
	}
	if _, err := v.keychain.Decrypt(p.FileKey, recordKey); err != nil {
		return nil, fail(http.StatusBadRequest, "bad_request", "file key is not wrapped by the record key")
	}
	var data models.RecordData
	if err := v.keychain.DecryptJSON(p.OwnerRecordData, recordKey, &data); err != nil {
		return nil, fail(http.StatusBadRequest, "bad_request", "owner record data is not encrypted by the record key")
	}
	if !hasFileRef(data, p.FileUID) {
		return nil, fail(http.StatusBadRequest, "bad_request", "owner record data does not reference the file")
	}

	rec.resp.Data = p.OwnerRecordData
	rec.resp.Files = append(rec.resp.Files, models.FileResponse{
		FileUID: p.FileUID,
		FileKey: p.FileKey,
		Data:    p.Data,
		URL:     v.fileURL(p.FileUID),
	})
	rec.resp.Revision++
	delete(v.uploads, p.FileUID)
	return models.AddFileResponse{Revision: rec.resp.Revision, URL: v.fileURL(p.FileUID)}, nil
}

func (v *Vault) storeUpload(w http.ResponseWriter, r *http.Request) {
	fileUID := chi.URLParam(r, "fileUID")

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.failUploads {
		http.Error(w, "storage unavailable", http.StatusInternalServerError)
		return
	}
	if _, ok := v.uploads[fileUID]; !ok {
		http.Error(w, "no upload slot", http.StatusForbidden)
		return
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}
	if r.FormValue("key") != fileUID {
		http.Error(w, "form key mismatch", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file part missing", http.StatusBadRequest)
		return
	}
	defer file.Close()

	blob, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "unreadable file part", http.StatusBadRequest)
		return
	}
	v.blobs[fileUID] = blob
	w.WriteHeader(uploadStatus)
}

func (v *Vault) serveFile(w http.ResponseWriter, r *http.Request) {
	fileUID := chi.URLParam(r, "fileUID")

	v.mu.Lock()
	blob, ok := v.blobs[fileUID]
	v.mu.Unlock()

	if !ok {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}
	_, _ = utils.WriteBlob(w, blob, http.StatusOK)
}

func writeError(w http.ResponseWriter, e *apiError) {
	_, _ = utils.WriteJSON(w, models.ErrorResponse{Error: e.code, Message: e.message}, e.status)
}

func parseSignature(header string) ([]byte, error) {
	raw, _ := strings.CutPrefix(header, "Signature ")
	return base64.StdEncoding.DecodeString(raw)
}

func hasFileRef(data models.RecordData, fileUID string) bool {
	for _, f := range data.Fields {
		if f.Type != models.FieldTypeFileRef {
			continue
		}
		for _, value := range f.Value {
			if s, ok := value.AsString(); ok && s == fileUID {
				return true
			}
		}
	}
	return false
}
