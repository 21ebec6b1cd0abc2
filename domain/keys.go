package domain

import (
	"fmt"

	"github.com/acksell/rpmscan/store"
)

// Composite key codecs for this package's join and natural keys. Each one
// is written by hand rather than generated or assembled through
// reflection: every field's encoding is explicit, and only the last
// variable-length field in a tuple goes through EncodeBytesTrailing —
// every field before it uses EncodeBytesField, whose terminator keeps a
// shorter tuple sorting before a longer one that shares its prefix.
// Fixed-width fields (a UUID, a uint64) never need escaping or a
// terminator at all: their width is already known at decode time.

var pkgRepoIDCodec = store.KeyCodec[PkgRepoID]{
	Encode: func(k PkgRepoID) []byte {
		b := make([]byte, 0, 32)
		b = append(b, store.EncodeUUID(k.PkgID)...)
		b = append(b, store.EncodeUUID(k.RepoID)...)
		return b
	},
	Decode: func(b []byte) (PkgRepoID, error) {
		if len(b) != 32 {
			return PkgRepoID{}, fmt.Errorf("domain: malformed PkgRepoID key (%d bytes)", len(b))
		}
		pkgID, err := store.DecodeUUID(b[:16])
		if err != nil {
			return PkgRepoID{}, err
		}
		repoID, err := store.DecodeUUID(b[16:])
		if err != nil {
			return PkgRepoID{}, err
		}
		return PkgRepoID{PkgID: pkgID, RepoID: repoID}, nil
	},
}

var advisoryRepoIDCodec = store.KeyCodec[AdvisoryRepoID]{
	Encode: func(k AdvisoryRepoID) []byte {
		b := make([]byte, 0, 32)
		b = append(b, store.EncodeUUID(k.AdvisoryID)...)
		b = append(b, store.EncodeUUID(k.RepoID)...)
		return b
	},
	Decode: func(b []byte) (AdvisoryRepoID, error) {
		if len(b) != 32 {
			return AdvisoryRepoID{}, fmt.Errorf("domain: malformed AdvisoryRepoID key (%d bytes)", len(b))
		}
		advisoryID, err := store.DecodeUUID(b[:16])
		if err != nil {
			return AdvisoryRepoID{}, err
		}
		repoID, err := store.DecodeUUID(b[16:])
		if err != nil {
			return AdvisoryRepoID{}, err
		}
		return AdvisoryRepoID{AdvisoryID: advisoryID, RepoID: repoID}, nil
	},
}

var pkgAdvisoryIDCodec = store.KeyCodec[PkgAdvisoryID]{
	Encode: func(k PkgAdvisoryID) []byte {
		b := make([]byte, 0, 32)
		b = append(b, store.EncodeUUID(k.PkgID)...)
		b = append(b, store.EncodeUUID(k.AdvisoryID)...)
		return b
	},
	Decode: func(b []byte) (PkgAdvisoryID, error) {
		if len(b) != 32 {
			return PkgAdvisoryID{}, fmt.Errorf("domain: malformed PkgAdvisoryID key (%d bytes)", len(b))
		}
		pkgID, err := store.DecodeUUID(b[:16])
		if err != nil {
			return PkgAdvisoryID{}, err
		}
		advisoryID, err := store.DecodeUUID(b[16:])
		if err != nil {
			return PkgAdvisoryID{}, err
		}
		return PkgAdvisoryID{PkgID: pkgID, AdvisoryID: advisoryID}, nil
	},
}

var nevraCodec = store.KeyCodec[Nevra]{
	Encode: func(n Nevra) []byte {
		var b []byte
		b = append(b, store.EncodeBytesField([]byte(n.Name))...)
		b = append(b, store.EncodeBytesField([]byte(n.Epoch))...)
		b = append(b, store.EncodeBytesField([]byte(n.Version))...)
		b = append(b, store.EncodeBytesField([]byte(n.Release))...)
		b = append(b, store.EncodeBytesTrailing([]byte(n.Arch))...)
		return b
	},
	Decode: func(b []byte) (Nevra, error) {
		name, rest, err := store.DecodeBytesField(b)
		if err != nil {
			return Nevra{}, fmt.Errorf("domain: decode nevra key: %w", err)
		}
		epoch, rest, err := store.DecodeBytesField(rest)
		if err != nil {
			return Nevra{}, fmt.Errorf("domain: decode nevra key: %w", err)
		}
		version, rest, err := store.DecodeBytesField(rest)
		if err != nil {
			return Nevra{}, fmt.Errorf("domain: decode nevra key: %w", err)
		}
		release, rest, err := store.DecodeBytesField(rest)
		if err != nil {
			return Nevra{}, fmt.Errorf("domain: decode nevra key: %w", err)
		}
		arch, err := store.DecodeBytesTrailing(rest)
		if err != nil {
			return Nevra{}, fmt.Errorf("domain: decode nevra key: %w", err)
		}
		return Nevra{
			Name:    string(name),
			Epoch:   string(epoch),
			Version: string(version),
			Release: string(release),
			Arch:    string(arch),
		}, nil
	},
}

var moduleAttrsCodec = store.KeyCodec[ModuleAttrs]{
	Encode: func(a ModuleAttrs) []byte {
		b := store.EncodeUUID(a.RepoID)
		b = append(b, store.EncodeBytesField([]byte(a.Name))...)
		b = append(b, store.EncodeBytesTrailing([]byte(a.Stream))...)
		return b
	},
	Decode: func(b []byte) (ModuleAttrs, error) {
		if len(b) < 16 {
			return ModuleAttrs{}, fmt.Errorf("domain: malformed ModuleAttrs key")
		}
		repoID, err := store.DecodeUUID(b[:16])
		if err != nil {
			return ModuleAttrs{}, err
		}
		name, rest, err := store.DecodeBytesField(b[16:])
		if err != nil {
			return ModuleAttrs{}, fmt.Errorf("domain: decode ModuleAttrs key: %w", err)
		}
		stream, err := store.DecodeBytesTrailing(rest)
		if err != nil {
			return ModuleAttrs{}, fmt.Errorf("domain: decode ModuleAttrs key: %w", err)
		}
		return ModuleAttrs{RepoID: repoID, Name: string(name), Stream: string(stream)}, nil
	},
}

var streamAttrsCodec = store.KeyCodec[StreamAttrs]{
	Encode: func(a StreamAttrs) []byte {
		b := store.EncodeUUID(a.RepoID)
		b = append(b, store.EncodeBytesField([]byte(a.Name))...)
		b = append(b, store.EncodeBytesField([]byte(a.Stream))...)
		b = append(b, store.EncodeUint64(a.Version)...)
		b = append(b, store.EncodeBytesTrailing([]byte(a.Context))...)
		return b
	},
	Decode: func(b []byte) (StreamAttrs, error) {
		if len(b) < 16 {
			return StreamAttrs{}, fmt.Errorf("domain: malformed StreamAttrs key")
		}
		repoID, err := store.DecodeUUID(b[:16])
		if err != nil {
			return StreamAttrs{}, err
		}
		name, rest, err := store.DecodeBytesField(b[16:])
		if err != nil {
			return StreamAttrs{}, fmt.Errorf("domain: decode StreamAttrs key: %w", err)
		}
		stream, rest, err := store.DecodeBytesField(rest)
		if err != nil {
			return StreamAttrs{}, fmt.Errorf("domain: decode StreamAttrs key: %w", err)
		}
		if len(rest) < 8 {
			return StreamAttrs{}, fmt.Errorf("domain: malformed StreamAttrs key: missing version")
		}
		version, err := store.DecodeUint64(rest[:8])
		if err != nil {
			return StreamAttrs{}, err
		}
		context, err := store.DecodeBytesTrailing(rest[8:])
		if err != nil {
			return StreamAttrs{}, fmt.Errorf("domain: decode StreamAttrs key: %w", err)
		}
		return StreamAttrs{
			RepoID:  repoID,
			Name:    string(name),
			Stream:  string(stream),
			Version: version,
			Context: string(context),
		}, nil
	},
}
