package vault

import (
	"sort"
	"strings"
	"unicode"

	"github.com/narwhaltorpedo/pwm/internal/aead"
	"github.com/narwhaltorpedo/pwm/internal/fileio"
	"github.com/narwhaltorpedo/pwm/internal/genpwd"
	"github.com/narwhaltorpedo/pwm/internal/kdf"
	"github.com/narwhaltorpedo/pwm/internal/pwmerrors"
	"github.com/narwhaltorpedo/pwm/internal/randsrc"
	"github.com/narwhaltorpedo/pwm/internal/sensitive"
)

// ItemData is the decrypted content of an item: the three fields packed
// into the 600-byte data plaintext.
type ItemData struct {
	Username  string
	Password  string
	OtherInfo string
}

// filename derives the deterministic, name-hiding path an item lives at:
// DeriveName(master, fileSalt, itemName+"files", 65).
func filename(master []byte, fileSalt [SaltSize]byte, itemName string) (string, error) {
	return kdf.DeriveName(master, fileSalt[:], itemName+kdf.LabelFiles, FilenameBufSize)
}

func validateItemName(name string) error {
	n := len([]rune(name))
	if n < 1 || n > MaxItemNameLen {
		return pwmerrors.NewUserError("item name must be 1-100 characters")
	}
	for _, r := range name {
		if !unicode.IsPrint(r) {
			return pwmerrors.NewUserError("item name must contain only printable characters")
		}
	}
	return nil
}

// Create derives the store-wide secrets via LoadAndVerify, prompts for the
// item's fields, and writes a new item file under O_EXCL -- it fails if an
// item with this name already exists.
func (s *Store) Create(itemName string) error {
	if err := validateItemName(itemName); err != nil {
		return err
	}

	vs, err := s.LoadAndVerify()
	if err != nil {
		return err
	}
	defer vs.Master.Release()

	fname, err := filename(vs.Master.Bytes(), vs.FileSalt, itemName)
	if err != nil {
		return err
	}
	exists, err := fileio.Exists(s.fsys, fname)
	if err != nil {
		return err
	}
	if exists {
		return &pwmerrors.UserError{Message: "an item named " + itemName + " already exists", Err: pwmerrors.ErrAlreadyExists}
	}

	data, err := s.promptItemData(vs.Config)
	if err != nil {
		return err
	}

	s.ui.Printf("Username:   %s\n", data.Username)
	s.ui.Printf("Other info: %s\n", data.OtherInfo)
	ok, err := s.ui.GetYesNo(true)
	if err != nil {
		return err
	}
	if !ok {
		return pwmerrors.NewUserError("item creation cancelled")
	}

	rec, err := s.encryptItem(vs.Master.Bytes(), vs.NameSalt, itemName, data)
	if err != nil {
		return err
	}

	f, err := fileio.CreateForWrite(s.fsys, fname)
	if err != nil {
		return err
	}
	if err := fileio.WriteAll(f, rec.Encode()); err != nil {
		f.Close()
		return err
	}
	return closeFn(f)
}

// promptItemData prompts for username, other info, and either a
// user-chosen or a generated password.
func (s *Store) promptItemData(cfg genpwd.Config) (ItemData, error) {
	s.ui.Printf("Username:\n")
	username, err := s.ui.GetLine(MaxUsernameLen)
	if err != nil {
		return ItemData{}, err
	}

	s.ui.Printf("Other info:\n")
	otherInfo, err := s.ui.GetLine(MaxOtherInfoLen)
	if err != nil {
		return ItemData{}, err
	}

	s.ui.Printf("Generate a password? [Y/n]\n")
	generate, err := s.ui.GetYesNo(true)
	if err != nil {
		return ItemData{}, err
	}

	var password string
	if generate {
		password, err = genpwd.Generate(cfg)
		if err != nil {
			return ItemData{}, err
		}
	} else {
		s.ui.Printf("Password:\n")
		pwdBytes, err := s.ui.GetPassword(MaxPasswordLen)
		if err != nil {
			return ItemData{}, err
		}
		defer sensitive.Zero(pwdBytes)
		if !genpwd.IsValid(string(pwdBytes)) {
			return ItemData{}, pwmerrors.NewUserError("password must be 8-64 printable characters")
		}
		password = string(pwdBytes)
	}

	return ItemData{Username: username, Password: password, OtherInfo: otherInfo}, nil
}

// encryptItem builds a full ItemRecord: a freshly random-nonced name
// ciphertext under the (reused) name key, and a freshly salted, freshly
// keyed data ciphertext under the fixed nonce.
func (s *Store) encryptItem(master []byte, nameSalt [SaltSize]byte, itemName string, data ItemData) (*ItemRecord, error) {
	nameKey, err := kdf.DeriveKey(master, nameSalt[:], kdf.LabelNames, kdf.KeySize)
	if err != nil {
		return nil, err
	}
	defer sensitive.Zero(nameKey)

	var rec ItemRecord
	if err := randsrc.Fill(rec.NameNonce[:]); err != nil {
		return nil, err
	}

	var namePlain [ItemNamePlaintextSize]byte
	copy(namePlain[:], itemName)

	nameCT, nameTag, err := aead.Encrypt(nameKey, rec.NameNonce[:], namePlain[:])
	if err != nil {
		return nil, err
	}
	copy(rec.NameTag[:], nameTag)
	copy(rec.NameCT[:], nameCT)

	if err := randsrc.Fill(rec.DataSalt[:]); err != nil {
		return nil, err
	}
	dataKey, err := kdf.DeriveKey(master, rec.DataSalt[:], kdf.LabelData, kdf.KeySize)
	if err != nil {
		return nil, err
	}
	defer sensitive.Zero(dataKey)

	plain := encodeItemData(data)
	dataCT, dataTag, err := aead.Encrypt(dataKey, aead.FixedNonce[:], plain[:])
	if err != nil {
		return nil, err
	}
	copy(rec.DataTag[:], dataTag)
	copy(rec.DataCT[:], dataCT)

	return &rec, nil
}

// encodeItemData packs username/password/otherInfo into the 600-byte,
// zero-padded "username\npassword\notherInfo" plaintext.
func encodeItemData(data ItemData) [ItemDataPlaintextSize]byte {
	var buf [ItemDataPlaintextSize]byte
	joined := data.Username + "\n" + data.Password + "\n" + data.OtherInfo
	copy(buf[:], joined)
	return buf
}

// decodeItemData splits the decrypted 600-byte plaintext on newlines into
// exactly three printable tokens; anything else is a corrupt store, never
// a silently-tolerated short record.
func decodeItemData(plain []byte) (ItemData, error) {
	nul := len(plain)
	for i, b := range plain {
		if b == 0 {
			nul = i
			break
		}
	}
	text := string(plain[:nul])

	parts := strings.SplitN(text, "\n", 3)
	if len(parts) != 3 {
		return ItemData{}, pwmerrors.NewCorruptionError("", "item data did not split into three fields", nil)
	}
	for _, p := range parts {
		for _, r := range p {
			if !unicode.IsPrint(r) {
				return ItemData{}, pwmerrors.NewCorruptionError("", "item field contains a non-printable character", nil)
			}
		}
	}
	return ItemData{Username: parts[0], Password: parts[1], OtherInfo: parts[2]}, nil
}

// readItemRecord opens fname and reads its full fixed-size record.
func (s *Store) readItemRecord(fname string) (*ItemRecord, error) {
	f, err := fileio.OpenForRead(s.fsys, fname)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, ItemRecordSize)
	readErr := fileio.ReadExact(f, buf)
	f.Close()
	if readErr != nil {
		return nil, readErr
	}
	return DecodeItemRecord(buf)
}

// Get verifies the store, locates itemName's file, and decrypts its data
// fields.
func (s *Store) Get(itemName string) (ItemData, error) {
	if err := validateItemName(itemName); err != nil {
		return ItemData{}, err
	}

	vs, err := s.LoadAndVerify()
	if err != nil {
		return ItemData{}, err
	}
	defer vs.Master.Release()

	fname, err := filename(vs.Master.Bytes(), vs.FileSalt, itemName)
	if err != nil {
		return ItemData{}, err
	}
	exists, err := fileio.Exists(s.fsys, fname)
	if err != nil {
		return ItemData{}, err
	}
	if !exists {
		return ItemData{}, &pwmerrors.UserError{Message: "item doesn't exist", Err: pwmerrors.ErrItemNotFound}
	}

	rec, err := s.readItemRecord(fname)
	if err != nil {
		return ItemData{}, err
	}

	dataKey, err := kdf.DeriveKey(vs.Master.Bytes(), rec.DataSalt[:], kdf.LabelData, kdf.KeySize)
	if err != nil {
		return ItemData{}, err
	}
	defer sensitive.Zero(dataKey)

	plain, err := aead.Decrypt(dataKey, aead.FixedNonce[:], rec.DataCT[:], rec.DataTag[:])
	if err != nil {
		return ItemData{}, pwmerrors.NewCorruptionError(fname, "item data did not verify", err)
	}

	data, err := decodeItemData(plain)
	if err != nil {
		return ItemData{}, err
	}

	s.ui.Printf("Username:   %s\n", data.Username)
	s.ui.Printf("Other info: %s\n", data.OtherInfo)
	s.ui.Printf("Show password? [y/N]\n")
	reveal, err := s.ui.GetYesNo(false)
	if err != nil {
		return ItemData{}, err
	}
	if reveal {
		s.ui.Printf("Password:   %s\n", data.Password)
	}

	return data, nil
}

// Update decrypts the existing item, runs an interactive replace-field
// menu until the user chooses "done", and -- only if at least one field
// actually changed -- re-encrypts under a fresh data salt/key and writes
// the result via temp-then-rename. The name block is carried over
// unchanged since the item's name does not change.
func (s *Store) Update(itemName string) error {
	if err := validateItemName(itemName); err != nil {
		return err
	}

	vs, err := s.LoadAndVerify()
	if err != nil {
		return err
	}
	defer vs.Master.Release()

	fname, err := filename(vs.Master.Bytes(), vs.FileSalt, itemName)
	if err != nil {
		return err
	}
	exists, err := fileio.Exists(s.fsys, fname)
	if err != nil {
		return err
	}
	if !exists {
		return &pwmerrors.UserError{Message: "item doesn't exist", Err: pwmerrors.ErrItemNotFound}
	}

	rec, err := s.readItemRecord(fname)
	if err != nil {
		return err
	}

	dataKey, err := kdf.DeriveKey(vs.Master.Bytes(), rec.DataSalt[:], kdf.LabelData, kdf.KeySize)
	if err != nil {
		return err
	}
	plain, decErr := aead.Decrypt(dataKey, aead.FixedNonce[:], rec.DataCT[:], rec.DataTag[:])
	sensitive.Zero(dataKey)
	if decErr != nil {
		return pwmerrors.NewCorruptionError(fname, "item data did not verify", decErr)
	}

	original, err := decodeItemData(plain)
	if err != nil {
		return err
	}

	updated, changed, err := s.runUpdateMenu(original, vs.Config)
	if err != nil {
		return err
	}
	if !changed {
		return pwmerrors.NewUserError("no changes")
	}

	var newRec ItemRecord
	newRec.NameNonce = rec.NameNonce
	newRec.NameTag = rec.NameTag
	newRec.NameCT = rec.NameCT

	if err := randsrc.Fill(newRec.DataSalt[:]); err != nil {
		return err
	}
	newKey, err := kdf.DeriveKey(vs.Master.Bytes(), newRec.DataSalt[:], kdf.LabelData, kdf.KeySize)
	if err != nil {
		return err
	}
	defer sensitive.Zero(newKey)

	newPlain := encodeItemData(updated)
	ct, tag, err := aead.Encrypt(newKey, aead.FixedNonce[:], newPlain[:])
	if err != nil {
		return err
	}
	copy(newRec.DataTag[:], tag)
	copy(newRec.DataCT[:], ct)

	return s.atomicWrite(fname, newRec.Encode())
}

// runUpdateMenu repeatedly asks which field to replace (or to finish),
// mutating a working copy of data and tracking whether anything changed.
func (s *Store) runUpdateMenu(data ItemData, cfg genpwd.Config) (ItemData, bool, error) {
	changed := false
	for {
		s.ui.Printf("Replace: 1) username 2) password 3) other info 4) done\n")
		choice, err := s.ui.GetUnsignedInt(1, 4)
		if err != nil {
			return data, changed, err
		}
		switch choice {
		case 1:
			s.ui.Printf("New username:\n")
			v, err := s.ui.GetLine(MaxUsernameLen)
			if err != nil {
				return data, changed, err
			}
			data.Username = v
			changed = true
		case 2:
			s.ui.Printf("Generate a password? [Y/n]\n")
			generate, err := s.ui.GetYesNo(true)
			if err != nil {
				return data, changed, err
			}
			if generate {
				v, err := genpwd.Generate(cfg)
				if err != nil {
					return data, changed, err
				}
				data.Password = v
			} else {
				s.ui.Printf("New password:\n")
				pwdBytes, err := s.ui.GetPassword(MaxPasswordLen)
				if err != nil {
					return data, changed, err
				}
				valid := genpwd.IsValid(string(pwdBytes))
				if !valid {
					sensitive.Zero(pwdBytes)
					return data, changed, pwmerrors.NewUserError("password must be 8-64 printable characters")
				}
				data.Password = string(pwdBytes)
				sensitive.Zero(pwdBytes)
			}
			changed = true
		case 3:
			s.ui.Printf("New other info:\n")
			v, err := s.ui.GetLine(MaxOtherInfoLen)
			if err != nil {
				return data, changed, err
			}
			data.OtherInfo = v
			changed = true
		case 4:
			return data, changed, nil
		}
	}
}

// Delete verifies the store, confirms with the user, and unlinks
// itemName's file.
func (s *Store) Delete(itemName string) error {
	if err := validateItemName(itemName); err != nil {
		return err
	}

	vs, err := s.LoadAndVerify()
	if err != nil {
		return err
	}
	defer vs.Master.Release()

	fname, err := filename(vs.Master.Bytes(), vs.FileSalt, itemName)
	if err != nil {
		return err
	}
	exists, err := fileio.Exists(s.fsys, fname)
	if err != nil {
		return err
	}
	if !exists {
		return &pwmerrors.UserError{Message: "item doesn't exist", Err: pwmerrors.ErrItemNotFound}
	}

	s.ui.Printf("Delete %s? [y/N]\n", itemName)
	ok, err := s.ui.GetYesNo(false)
	if err != nil {
		return err
	}
	if !ok {
		return pwmerrors.NewUserError("deletion cancelled")
	}

	return s.fsys.Remove(fname)
}

// List verifies the store, decrypts the name block of every item file,
// and returns the recovered names sorted lexicographically -- sorting is
// load-bearing: it prevents the filesystem's own iteration order (which
// can leak write/derivation order) from ever reaching the user.
func (s *Store) List() ([]string, error) {
	vs, err := s.LoadAndVerify()
	if err != nil {
		return nil, err
	}
	defer vs.Master.Release()

	nameKey, err := kdf.DeriveKey(vs.Master.Bytes(), vs.NameSalt[:], kdf.LabelNames, kdf.KeySize)
	if err != nil {
		return nil, err
	}
	defer sensitive.Zero(nameKey)

	dir, err := s.fsys.Open("/")
	if err != nil {
		return nil, pwmerrors.NewInternalError("vault.List", "could not open store directory", err)
	}
	entries, err := dir.Readdirnames(0)
	dir.Close()
	if err != nil {
		return nil, pwmerrors.NewInternalError("vault.List", "could not list store directory", err)
	}

	var names []string
	for _, entry := range entries {
		if entry == systemFileName || entry == tempFileName {
			continue
		}

		rec, err := s.readItemRecord(entry)
		if err != nil {
			return nil, err
		}

		plain, decErr := aead.Decrypt(nameKey, rec.NameNonce[:], rec.NameCT[:], rec.NameTag[:])
		if decErr != nil {
			return nil, pwmerrors.NewCorruptionError(entry, "item name did not verify", decErr)
		}

		nul := len(plain)
		for i, b := range plain {
			if b == 0 {
				nul = i
				break
			}
		}
		names = append(names, string(plain[:nul]))
	}

	sort.Strings(names)
	return names, nil
}
