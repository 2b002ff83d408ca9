package vault

import (
	"time"

	"github.com/narwhaltorpedo/pwm/internal/aead"
	"github.com/narwhaltorpedo/pwm/internal/ctutil"
	"github.com/narwhaltorpedo/pwm/internal/fileio"
	"github.com/narwhaltorpedo/pwm/internal/genpwd"
	"github.com/narwhaltorpedo/pwm/internal/kdf"
	"github.com/narwhaltorpedo/pwm/internal/pwmerrors"
	"github.com/narwhaltorpedo/pwm/internal/randsrc"
	"github.com/narwhaltorpedo/pwm/internal/sensitive"
)

// initialBackoff and maxBackoff bound the master-password retry loop.
// The reference implementation doubles an unbounded backoff; this rewrite
// caps it at maxBackoff per the specification's own recommendation, so a
// legitimate user who mistypes many times is never locked out in
// practice while brute force remains painful.
const (
	initialBackoff = 1 * time.Second
	maxBackoff      = 60 * time.Second
)

// Initialized reports whether the store has already been set up.
func (s *Store) Initialized() (bool, error) {
	return fileio.Exists(s.fsys, systemFileName)
}

// Init creates a new store: it prompts for and confirms a master secret,
// generates the three store-wide salts, encrypts the default password
// policy under a config key derived from the master secret, and writes
// the 116-byte system file. It fails if a store already exists at this
// location.
func (s *Store) Init() error {
	exists, err := s.Initialized()
	if err != nil {
		return err
	}
	if exists {
		return &pwmerrors.UserError{Message: "the system has already been initialized", Err: pwmerrors.ErrAlreadyExists}
	}

	master, err := s.promptNewMaster()
	if err != nil {
		return err
	}
	defer master.Release()

	var rec SystemRecord
	if err := randsrc.Fill(rec.FileSalt[:]); err != nil {
		return err
	}
	if err := randsrc.Fill(rec.NameSalt[:]); err != nil {
		return err
	}
	if err := randsrc.Fill(rec.CfgSalt[:]); err != nil {
		return err
	}

	cfgKey, err := kdf.DeriveKey(master.Bytes(), rec.CfgSalt[:], kdf.LabelData, kdf.KeySize)
	if err != nil {
		return err
	}
	defer sensitive.Zero(cfgKey)

	cfgPlain := genpwd.DefaultConfig().Serialize()
	ct, tag, err := aead.Encrypt(cfgKey, aead.FixedNonce[:], cfgPlain[:])
	if err != nil {
		return err
	}
	copy(rec.CfgTag[:], tag)
	copy(rec.CfgCT[:], ct)

	if err := s.ensureRootDir(); err != nil {
		return err
	}

	f, err := fileio.CreateForWrite(s.fsys, systemFileName)
	if err != nil {
		return err
	}
	if err := fileio.WriteAll(f, rec.Encode()); err != nil {
		f.Close()
		return err
	}
	return closeFn(f)
}

// promptNewMaster prompts for a master secret, prompts again for
// confirmation, and fails unless they match and the secret satisfies the
// length/printability policy. The returned secret must be released by the
// caller.
func (s *Store) promptNewMaster() (*sensitive.Secret, error) {
	s.ui.Printf("Enter new master password:\n")
	first, err := s.ui.GetPassword(genpwd.MaxPasswordLen)
	if err != nil {
		return nil, err
	}
	defer sensitive.Zero(first)

	s.ui.Printf("Confirm master password:\n")
	second, err := s.ui.GetPassword(genpwd.MaxPasswordLen)
	if err != nil {
		return nil, err
	}
	defer sensitive.Zero(second)

	if !ctutil.Equal(first, second) {
		return nil, pwmerrors.NewUserError("passwords do not match")
	}
	if !genpwd.IsValid(string(first)) {
		return nil, pwmerrors.NewUserError("master password must be 8-64 printable characters")
	}

	secret, err := sensitive.NewSecret(len(first))
	if err != nil {
		return nil, err
	}
	copy(secret.Bytes(), first)
	return secret, nil
}

// VerifiedStore is the state recovered by a successful LoadAndVerify:
// the two immutable store-wide salts, the current password-generation
// policy, and the master secret, held in a sensitive buffer the caller
// must Release.
type VerifiedStore struct {
	FileSalt [SaltSize]byte
	NameSalt [SaltSize]byte
	Config   genpwd.Config
	Master   *sensitive.Secret
}

// LoadAndVerify reads the system file, prompts for the master secret, and
// loops with doubling backoff until the candidate master secret decrypts
// the config record successfully. It never fails fatally on a wrong
// password -- that is by design indistinguishable from a user typo.
func (s *Store) LoadAndVerify() (*VerifiedStore, error) {
	exists, err := s.Initialized()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &pwmerrors.UserError{Message: "the system has not been initialized", Err: pwmerrors.ErrNotInitialized}
	}

	f, err := fileio.OpenForRead(s.fsys, systemFileName)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, SystemRecordSize)
	readErr := fileio.ReadExact(f, buf)
	f.Close()
	if readErr != nil {
		return nil, readErr
	}
	rec, err := DecodeSystemRecord(buf)
	if err != nil {
		return nil, err
	}

	backoff := initialBackoff
	for {
		s.ui.Printf("Enter master password:\n")
		candidate, err := s.ui.GetPassword(genpwd.MaxPasswordLen)
		if err != nil {
			return nil, err
		}

		secret, err := sensitive.NewSecret(len(candidate))
		if err != nil {
			sensitive.Zero(candidate)
			return nil, err
		}
		copy(secret.Bytes(), candidate)
		sensitive.Zero(candidate)

		cfgKey, err := kdf.DeriveKey(secret.Bytes(), rec.CfgSalt[:], kdf.LabelData, kdf.KeySize)
		if err != nil {
			secret.Release()
			return nil, err
		}
		plain, decErr := aead.Decrypt(cfgKey, aead.FixedNonce[:], rec.CfgCT[:], rec.CfgTag[:])
		sensitive.Zero(cfgKey)

		if decErr == nil {
			cfg, cfgErr := genpwd.ParseConfig(plain)
			if cfgErr != nil {
				secret.Release()
				return nil, cfgErr
			}
			return &VerifiedStore{
				FileSalt: rec.FileSalt,
				NameSalt: rec.NameSalt,
				Config:   cfg,
				Master:   secret,
			}, nil
		}

		secret.Release()
		s.ui.Printf("Incorrect master password.\n")
		time.Sleep(backoff)
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// Rewrite re-derives the config-encryption key under a fresh cfgSalt,
// re-encrypts newCfg, and atomically replaces the system file.
// fileSalt/nameSalt are preserved verbatim so existing item filenames
// remain valid.
func (s *Store) Rewrite(master *sensitive.Secret, fileSalt, nameSalt [SaltSize]byte, newCfg genpwd.Config) error {
	var rec SystemRecord
	rec.FileSalt = fileSalt
	rec.NameSalt = nameSalt

	if err := randsrc.Fill(rec.CfgSalt[:]); err != nil {
		return err
	}

	cfgKey, err := kdf.DeriveKey(master.Bytes(), rec.CfgSalt[:], kdf.LabelData, kdf.KeySize)
	if err != nil {
		return err
	}
	defer sensitive.Zero(cfgKey)

	plain := newCfg.Serialize()
	ct, tag, err := aead.Encrypt(cfgKey, aead.FixedNonce[:], plain[:])
	if err != nil {
		return err
	}
	copy(rec.CfgTag[:], tag)
	copy(rec.CfgCT[:], ct)

	return s.atomicWrite(systemFileName, rec.Encode())
}

// Configure loads and verifies the store, runs an interactive menu over
// the current password-generation policy, and -- if anything changed --
// rewrites the system file under a freshly rolled cfgSalt.
func (s *Store) Configure() error {
	vs, err := s.LoadAndVerify()
	if err != nil {
		return err
	}
	defer vs.Master.Release()

	newCfg, changed, err := s.runConfigMenu(vs.Config)
	if err != nil {
		return err
	}
	if !changed {
		return pwmerrors.NewUserError("no changes")
	}

	return s.Rewrite(vs.Master, vs.FileSalt, vs.NameSalt, newCfg)
}

// runConfigMenu repeatedly offers to toggle a symbol pool or change the
// generated password length, until the user chooses "done".
func (s *Store) runConfigMenu(cfg genpwd.Config) (genpwd.Config, bool, error) {
	changed := false
	for {
		s.ui.Printf("Current policy: numbers=%v letters=%v specials=%v length=%d\n",
			cfg.UseNums, cfg.UseLetters, cfg.UseSpecials, cfg.PasswordLen)
		s.ui.Printf("1) toggle numbers 2) toggle letters 3) toggle specials 4) set length 5) done\n")
		choice, err := s.ui.GetUnsignedInt(1, 5)
		if err != nil {
			return cfg, changed, err
		}
		switch choice {
		case 1:
			cfg.UseNums = !cfg.UseNums
			changed = true
		case 2:
			cfg.UseLetters = !cfg.UseLetters
			changed = true
		case 3:
			cfg.UseSpecials = !cfg.UseSpecials
			changed = true
		case 4:
			s.ui.Printf("New password length (%d-%d):\n", genpwd.MinPasswordLen, genpwd.MaxPasswordLen)
			n, err := s.ui.GetUnsignedInt(genpwd.MinPasswordLen, genpwd.MaxPasswordLen)
			if err != nil {
				return cfg, changed, err
			}
			cfg.PasswordLen = uint8(n)
			changed = true
		case 5:
			if !cfg.UseNums && !cfg.UseLetters && !cfg.UseSpecials {
				return cfg, changed, pwmerrors.NewUserError("at least one symbol pool must remain enabled")
			}
			return cfg, changed, nil
		}
	}
}

// Destroy requires two separate confirmations and a correct master
// password before irrevocably removing the entire store directory.
func (s *Store) Destroy() error {
	s.ui.Printf("This will permanently delete the entire store. Continue? [y/N]\n")
	ok, err := s.ui.GetYesNo(false)
	if err != nil {
		return err
	}
	if !ok {
		return pwmerrors.NewUserError("destroy cancelled")
	}

	s.ui.Printf("Are you certain? This cannot be undone. [y/N]\n")
	ok, err = s.ui.GetYesNo(false)
	if err != nil {
		return err
	}
	if !ok {
		return pwmerrors.NewUserError("destroy cancelled")
	}

	vs, err := s.LoadAndVerify()
	if err != nil {
		return err
	}
	vs.Master.Release()

	return fileio.RemoveTree(s.fsys, "/")
}

// ensureRootDir makes sure the store root exists before the first
// relative-path write. storage.FS callers create the root directory
// itself via storage.FS.EnsureRoot before handing the *FS to New; this
// is a portable fallback for absfs.FileSystem implementations (e.g.
// memfs in tests) that are already rooted and treat MkdirAll("/", ...)
// on an existing root as a no-op.
func (s *Store) ensureRootDir() error {
	if err := s.fsys.MkdirAll("/", 0700); err != nil {
		return pwmerrors.NewInternalError("vault.ensureRootDir", "could not create store directory", err)
	}
	return nil
}

func closeFn(c interface{ Close() error }) error {
	if err := c.Close(); err != nil {
		return pwmerrors.NewInternalError("vault.closeFn", "could not close file", err)
	}
	return nil
}
