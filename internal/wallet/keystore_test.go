package wallet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suisend/suisend/pkg/crypto"
)

func testKeystore(t *testing.T) *Keystore {
	t.Helper()
	ks, err := NewKeystore(filepath.Join(t.TempDir(), "keys"))
	require.NoError(t, err)
	return ks
}

func TestKeystore_ImportAndLoad(t *testing.T) {
	ks := testKeystore(t)

	entry, err := ks.Import("main", "0x"+testSecretHex, Options{}, []byte("pw"), fastParams())
	require.NoError(t, err)
	require.Equal(t, "main", entry.Name)
	require.Equal(t, FormatHex, entry.Format)
	require.Equal(t, "ed25519", entry.Scheme)

	cred, err := ks.Load("main", []byte("pw"))
	require.NoError(t, err)
	require.Equal(t, entry.Address, cred.Address().String())
}

func TestKeystore_MnemonicKeepsDerivation(t *testing.T) {
	ks := testKeystore(t)
	opts := Options{Scheme: crypto.SchemeSecp256k1, Account: 4}

	entry, err := ks.Import("seed", "  "+testMnemonic+"\n", opts, []byte("pw"), fastParams())
	require.NoError(t, err)
	require.Equal(t, FormatMnemonic, entry.Format)
	require.Equal(t, uint32(4), entry.Account)

	want, err := ParseCredentialWith(testMnemonic, opts)
	require.NoError(t, err)

	cred, err := ks.Load("seed", []byte("pw"))
	require.NoError(t, err)
	require.Equal(t, want.Address(), cred.Address())
	require.Equal(t, crypto.SchemeSecp256k1, cred.Scheme())
}

func TestKeystore_Errors(t *testing.T) {
	ks := testKeystore(t)

	_, err := ks.Import("main", testSecretHex, Options{}, []byte("pw"), fastParams())
	require.NoError(t, err)

	_, err = ks.Import("main", testSecretHex, Options{}, []byte("pw"), fastParams())
	require.ErrorIs(t, err, ErrKeyExists)

	_, err = ks.Import("../escape", testSecretHex, Options{}, []byte("pw"), fastParams())
	require.ErrorIs(t, err, ErrKeyName)

	_, err = ks.Import("junk", "not a credential", Options{}, []byte("pw"), fastParams())
	require.ErrorIs(t, err, ErrInvalidMnemonic)

	_, err = ks.Load("main", []byte("wrong"))
	require.ErrorIs(t, err, ErrDecrypt)

	_, err = ks.Load("ghost", []byte("pw"))
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.ErrorIs(t, ks.Delete("ghost"), ErrKeyNotFound)
}

func TestKeystore_ListAndDelete(t *testing.T) {
	ks := testKeystore(t)

	entries, err := ks.List()
	require.NoError(t, err)
	require.Empty(t, entries)

	_, err = ks.Import("beta", testSecretHex, Options{}, []byte("p"), fastParams())
	require.NoError(t, err)
	_, err = ks.Import("alpha", testMnemonic, Options{}, []byte("p"), fastParams())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(ks.Dir(), "notes.txt"), []byte("x"), 0600))

	entries, err = ks.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "alpha", entries[0].Name)
	require.Equal(t, "beta", entries[1].Name)

	require.NoError(t, ks.Delete("alpha"))
	_, err = ks.Info("alpha")
	require.ErrorIs(t, err, ErrKeyNotFound)

	info, err := ks.Info("beta")
	require.NoError(t, err)
	require.Equal(t, FormatHex, info.Format)
}

func TestKeystore_FilePermissions(t *testing.T) {
	ks := testKeystore(t)
	_, err := ks.Import("secure", testSecretHex, Options{}, []byte("p"), fastParams())
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(ks.Dir(), "secure.key"))
	require.NoError(t, err)
	require.Zero(t, info.Mode().Perm()&0077, "key file should be 0600")

	raw, err := os.ReadFile(filepath.Join(ks.Dir(), "secure.key"))
	require.NoError(t, err)
	require.NotContains(t, string(raw), testSecretHex)
}

func TestKeystore_TamperedAddress(t *testing.T) {
	ks := testKeystore(t)
	_, err := ks.Import("main", testSecretHex, Options{}, []byte("p"), fastParams())
	require.NoError(t, err)

	kf, err := ks.readFile("main")
	require.NoError(t, err)
	kf.Address = "0x" + testSecretHex
	require.NoError(t, ks.writeFile(ks.keyPath("main"), kf))

	_, err = ks.Load("main", []byte("p"))
	require.Error(t, err)
}
