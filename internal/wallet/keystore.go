package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/suisend/suisend/internal/log"
	"github.com/suisend/suisend/pkg/crypto"
)

const (
	keystoreVersion = 1
	keyFileExt      = ".key"
)

// Keystore errors.
var (
	ErrKeyExists   = errors.New("key already exists")
	ErrKeyNotFound = errors.New("key not found")
	ErrKeyName     = errors.New("key name must be 1-64 characters of [A-Za-z0-9._-]")
)

var keyNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// keystoreFile is the on-disk JSON format for one stored credential.
// The credential string itself is sealed; everything else is public metadata.
type keystoreFile struct {
	Version   int       `json:"version"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Format    Format    `json:"format"`
	Scheme    string    `json:"scheme"`
	Account   uint32    `json:"account"`
	Address   string    `json:"address"`
	Sealed    []byte    `json:"sealed_credential"`
}

// Entry is the public metadata of a stored credential.
type Entry struct {
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Scheme    string    `json:"scheme"`
	Format    Format    `json:"format"`
	Account   uint32    `json:"account"`
	CreatedAt time.Time `json:"created_at"`
}

// Keystore manages encrypted credentials in a directory, one file per name.
type Keystore struct {
	path string
}

// NewKeystore creates a keystore that reads/writes to the given directory.
// The directory is created if it doesn't exist.
func NewKeystore(path string) (*Keystore, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	return &Keystore{path: path}, nil
}

// Dir returns the keystore directory.
func (ks *Keystore) Dir() string { return ks.path }

func (ks *Keystore) keyPath(name string) string {
	return filepath.Join(ks.path, name+keyFileExt)
}

// Import validates credential, seals it under password and stores it as name.
// Mnemonic credentials keep opts so Load derives the same account.
func (ks *Keystore) Import(name, credential string, opts Options, password []byte, params EncryptionParams) (*Entry, error) {
	if !keyNamePattern.MatchString(name) {
		return nil, ErrKeyName
	}
	path := ks.keyPath(name)
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %q", ErrKeyExists, name)
	}

	cred, err := ParseCredentialWith(credential, opts)
	if err != nil {
		return nil, err
	}
	defer cred.Zero()

	plain := []byte(strings.TrimSpace(credential))
	if cred.Format == FormatMnemonic {
		plain = []byte(NormalizeMnemonic(credential))
	}
	sealed, err := Encrypt(plain, password, []byte(name), params)
	wipe(plain)
	if err != nil {
		return nil, fmt.Errorf("encrypt credential: %w", err)
	}

	kf := keystoreFile{
		Version:   keystoreVersion,
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Format:    cred.Format,
		Scheme:    cred.Scheme().String(),
		Address:   cred.Address().String(),
		Sealed:    sealed,
	}
	if cred.Format == FormatMnemonic {
		kf.Account = opts.Account
	}
	if err := ks.writeFile(path, &kf); err != nil {
		return nil, err
	}

	log.Wallet.Info().Str("name", name).Str("address", kf.Address).Msg("Credential stored")
	entry := kf.entry()
	return &entry, nil
}

// Load decrypts the named credential and resolves its key. The resolved
// address must match the one recorded at import time.
func (ks *Keystore) Load(name string, password []byte) (*Credential, error) {
	kf, err := ks.readFile(name)
	if err != nil {
		return nil, err
	}

	plain, err := Decrypt(kf.Sealed, password, []byte(name))
	if err != nil {
		return nil, fmt.Errorf("unlock %q: %w", name, err)
	}
	defer wipe(plain)

	opts := Options{Account: kf.Account}
	if kf.Format == FormatMnemonic {
		if opts.Scheme, err = crypto.ParseScheme(kf.Scheme); err != nil {
			return nil, err
		}
	}
	cred, err := ParseCredentialWith(string(plain), opts)
	if err != nil {
		return nil, fmt.Errorf("stored credential %q: %w", name, err)
	}
	if got := cred.Address().String(); got != kf.Address {
		cred.Zero()
		return nil, fmt.Errorf("stored credential %q resolves to %s, recorded %s", name, got, kf.Address)
	}
	return cred, nil
}

// Info returns the metadata of one stored credential without decrypting it.
func (ks *Keystore) Info(name string) (*Entry, error) {
	kf, err := ks.readFile(name)
	if err != nil {
		return nil, err
	}
	entry := kf.entry()
	return &entry, nil
}

// List returns all stored credentials sorted by name.
func (ks *Keystore) List() ([]Entry, error) {
	files, err := os.ReadDir(ks.path)
	if err != nil {
		return nil, fmt.Errorf("read keystore dir: %w", err)
	}

	var entries []Entry
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != keyFileExt {
			continue
		}
		name := strings.TrimSuffix(f.Name(), keyFileExt)
		kf, err := ks.readFile(name)
		if err != nil {
			log.Wallet.Warn().Err(err).Str("file", f.Name()).Msg("Skipping unreadable key file")
			continue
		}
		entries = append(entries, kf.entry())
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Delete removes a stored credential.
func (ks *Keystore) Delete(name string) error {
	if !keyNamePattern.MatchString(name) {
		return ErrKeyName
	}
	path := ks.keyPath(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("%w: %q", ErrKeyNotFound, name)
	}
	return os.Remove(path)
}

func (kf *keystoreFile) entry() Entry {
	return Entry{
		Name:      kf.Name,
		Address:   kf.Address,
		Scheme:    kf.Scheme,
		Format:    kf.Format,
		Account:   kf.Account,
		CreatedAt: kf.CreatedAt,
	}
}

func (ks *Keystore) writeFile(path string, kf *keystoreFile) error {
	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal key file: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	return nil
}

func (ks *Keystore) readFile(name string) (*keystoreFile, error) {
	if !keyNamePattern.MatchString(name) {
		return nil, ErrKeyName
	}
	data, err := os.ReadFile(ks.keyPath(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	var kf keystoreFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse key file: %w", err)
	}
	if kf.Version != keystoreVersion {
		return nil, fmt.Errorf("unsupported key file version: %d", kf.Version)
	}
	return &kf, nil
}
