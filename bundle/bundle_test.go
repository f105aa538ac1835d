package bundle

import (
	"archive/tar"
	"bytes"
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"

	"github.com/schemawire/schemawire/canonical"
	"github.com/schemawire/schemawire/digest"
	"github.com/schemawire/schemawire/schema"
)

func sampleEntries() []Entry {
	return []Entry{
		{
			Name: "Point",
			Mode: schema.ModeNominal,
			Value: schema.NamedProduct("Point",
				schema.F("x", schema.Uint(64)),
				schema.F("y", schema.Uint(64)),
			),
		},
		{
			Name:  "Timestamp",
			Mode:  schema.ModeAtom,
			Value: schema.Atom("time.Time"),
		},
		{
			Name:  "Payload",
			Mode:  schema.ModeStructural,
			Value: schema.Product(schema.Anon(schema.Bytes()), schema.Anon(schema.Uint(32))),
		},
	}
}

func mustExport(t *testing.T, entries []Entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Export(&buf, entries); err != nil {
		t.Fatalf("Export: %v", err)
	}
	return buf.Bytes()
}

func TestBundle_RoundTrip(t *testing.T) {
	entries := sampleEntries()
	data := mustExport(t, entries)

	imported, err := Import(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(imported) != len(entries) {
		t.Fatalf("imported %d entries, want %d", len(imported), len(entries))
	}

	byName := make(map[string]Imported)
	for _, imp := range imported {
		byName[imp.Name] = imp
	}
	for _, e := range entries {
		imp, ok := byName[e.Name]
		if !ok {
			t.Fatalf("entry %s missing from import", e.Name)
		}
		if imp.Mode != e.Mode {
			t.Fatalf("entry %s: mode %s, want %s", e.Name, imp.Mode, e.Mode)
		}
		if !imp.Value.Equal(e.Value) {
			t.Fatalf("entry %s: value changed:\n in: %s\nout: %s", e.Name, e.Value, imp.Value)
		}
		b, err := canonical.Encode(e.Value)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if imp.Digest != digest.Sum(b) {
			t.Fatalf("entry %s: digest does not match canonical bytes", e.Name)
		}
	}
}

func TestBundle_DeterministicBytes(t *testing.T) {
	entries := sampleEntries()
	a := mustExport(t, entries)

	// Same set, different input order.
	reordered := []Entry{entries[2], entries[0], entries[1]}
	b := mustExport(t, reordered)
	if !bytes.Equal(a, b) {
		t.Fatalf("bundle bytes depend on entry order")
	}
}

func TestBundle_SharedBlocksDeduplicated(t *testing.T) {
	v := schema.Atom("time.Time")
	entries := []Entry{
		{Name: "A", Mode: schema.ModeAtom, Value: v},
		{Name: "B", Mode: schema.ModeAtom, Value: v},
	}
	data := mustExport(t, entries)
	imported, err := Import(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(imported) != 2 {
		t.Fatalf("imported %d labels, want 2", len(imported))
	}
	if imported[0].Digest != imported[1].Digest {
		t.Fatalf("identical values should share a block digest")
	}
}

func TestExport_RejectsBadEntries(t *testing.T) {
	if err := Export(&bytes.Buffer{}, []Entry{{Name: "", Mode: schema.ModeAtom, Value: schema.Unit()}}); err == nil {
		t.Fatalf("accepted empty name")
	}
	if err := Export(&bytes.Buffer{}, []Entry{{Name: "x", Mode: schema.Mode(0), Value: schema.Unit()}}); err == nil {
		t.Fatalf("accepted invalid mode")
	}
	if err := Export(&bytes.Buffer{}, []Entry{
		{Name: "x", Mode: schema.ModeAtom, Value: schema.Unit()},
		{Name: "x", Mode: schema.ModeAtom, Value: schema.Bool()},
	}); err == nil {
		t.Fatalf("accepted duplicate names")
	}
	if err := Export(&bytes.Buffer{}, []Entry{
		{Name: "x", Mode: schema.ModeNominal, Value: schema.Value{Kind: schema.KindAtom}},
	}); err == nil {
		t.Fatalf("accepted a value that cannot encode")
	}
}

// tamperedArchive builds a zstd TAR by hand with one block whose payload
// disagrees with the digest in its path.
func tamperedArchive(t *testing.T) []byte {
	t.Helper()
	honest, err := canonical.Encode(schema.Atom("time.Time"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	lying, err := canonical.Encode(schema.Atom("time.Time2"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	claimed := digest.Sum(honest)

	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf, zstd.WithEncoderConcurrency(1))
	if err != nil {
		t.Fatalf("zstd: %v", err)
	}
	tw := tar.NewWriter(zw)
	writeTestFile(t, tw, "blocks/"+claimed.Hex(), lying)
	idx, err := json.Marshal(indexJSON{
		Version: FormatVersion,
		Hash:    "blake3-256",
		Blocks:  []indexBlock{{Digest: claimed.Hex(), Size: len(lying)}},
		Labels:  []indexLabel{{Name: "A", Mode: "atom", Digest: claimed.Hex()}},
	})
	if err != nil {
		t.Fatalf("marshal index: %v", err)
	}
	writeTestFile(t, tw, "index.json", idx)
	if err := tw.Close(); err != nil {
		t.Fatalf("tar close: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zstd close: %v", err)
	}
	return buf.Bytes()
}

func writeTestFile(t *testing.T, tw *tar.Writer, name string, content []byte) {
	t.Helper()
	hdr := &tar.Header{Name: name, Mode: 0o644, Size: int64(len(content)), Typeflag: tar.TypeReg}
	if err := tw.WriteHeader(hdr); err != nil {
		t.Fatalf("tar header: %v", err)
	}
	if _, err := tw.Write(content); err != nil {
		t.Fatalf("tar write: %v", err)
	}
}

func TestImport_RejectsTamperedBlock(t *testing.T) {
	_, err := Import(bytes.NewReader(tamperedArchive(t)))
	if !errors.Is(err, ErrDigestMismatch) {
		t.Fatalf("Import(tampered) = %v, want ErrDigestMismatch", err)
	}
}

func TestImport_RejectsGarbage(t *testing.T) {
	if _, err := Import(bytes.NewReader([]byte("not a bundle"))); err == nil {
		t.Fatalf("imported garbage")
	}
	if _, err := Import(bytes.NewReader(nil)); err == nil {
		t.Fatalf("imported empty input")
	}
}

func TestImport_EmptyBundle(t *testing.T) {
	// An empty entry set still writes an index; importing it succeeds with
	// zero schemas.
	data := mustExport(t, nil)
	imported, err := Import(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Import(empty bundle): %v", err)
	}
	if len(imported) != 0 {
		t.Fatalf("imported %d entries from empty bundle", len(imported))
	}
}

func TestImport_MissingIndex(t *testing.T) {
	b, err := canonical.Encode(schema.Unit())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf, zstd.WithEncoderConcurrency(1))
	if err != nil {
		t.Fatalf("zstd: %v", err)
	}
	tw := tar.NewWriter(zw)
	writeTestFile(t, tw, "blocks/"+digest.Sum(b).Hex(), b)
	if err := tw.Close(); err != nil {
		t.Fatalf("tar close: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zstd close: %v", err)
	}

	_, err = Import(bytes.NewReader(buf.Bytes()))
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("Import(no index) = %v, want ErrMalformed", err)
	}
}

func TestImport_LabelReferencingMissingBlock(t *testing.T) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf, zstd.WithEncoderConcurrency(1))
	if err != nil {
		t.Fatalf("zstd: %v", err)
	}
	tw := tar.NewWriter(zw)
	phantom := digest.Sum([]byte("never written")).Hex()
	idx, err := json.Marshal(indexJSON{
		Version: FormatVersion,
		Hash:    "blake3-256",
		Labels:  []indexLabel{{Name: "A", Mode: "nominal", Digest: phantom}},
	})
	if err != nil {
		t.Fatalf("marshal index: %v", err)
	}
	writeTestFile(t, tw, "index.json", idx)
	if err := tw.Close(); err != nil {
		t.Fatalf("tar close: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zstd close: %v", err)
	}

	_, err = Import(bytes.NewReader(buf.Bytes()))
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("Import(dangling label) = %v, want ErrMalformed", err)
	}
}
