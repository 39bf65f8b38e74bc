package grammar

import (
	"embed"
	"os"

	"github.com/0xricksanchez/hantu-go/internal/ferrors"
)

//go:embed grammars/*.json
var bundledGrammars embed.FS

// Names lists every built-in grammar-mutator name accepted by
// --grammar-mutator, mirroring GrammarTemplate::NAMES from
// grammar_mutator/src/lib.rs. Not every name has a bundled JSON asset in
// this port (see bundledAssets below); the rest are named here so argument
// validation and --help output stay faithful to the original's surface,
// even though only a subset currently resolve to real grammars.
var Names = [62]string{
	"avi", "bash", "bmp", "bson", "bzip2", "cab", "cpio", "css", "csv",
	"dhcp", "dns", "ebpf", "elf", "eps", "epub", "ftp", "geojson", "gif",
	"gzip", "html", "ico", "ini", "javascript", "jpeg2000", "jpg", "json",
	"jwt", "lua", "lzma", "lzo", "markdown", "midi", "mov", "mp3", "mp4",
	"msgpack", "ntp", "pcap", "pdf", "pe", "perl", "php", "png",
	"postscript", "python", "rar", "rtf", "ruby", "smtp", "sql_queries",
	"sqlite_db", "svg", "tar", "tiff", "toml", "ttf", "wav", "webp",
	"woff", "xml", "yaml", "zip",
}

// bundledAssets maps a built-in name to the embedded grammars/*.json file
// that implements it. Only the names actually wired to a hand-authored
// grammar file appear here; the rest of Names exists so the CLI recognizes
// the full original name set while being honest that most aren't bundled.
var bundledAssets = map[string]string{
	"json": "grammars/json.json",
	"csv":  "grammars/csv.json",
	"ini":  "grammars/ini.json",
	"yaml": "grammars/yaml.json",
}

// IsKnownName reports whether name is one of the 62 built-in names (whether
// or not it currently has a bundled asset).
func IsKnownName(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}

// LoadNamed compiles the grammar bundled for a built-in name. It returns a
// ferrors.KindPathDoesNotExist error both for names outside the original's
// 62-name set and for known names that have no bundled asset in this port
// yet — the caller can't tell the difference from the CLI's point of view,
// and shouldn't need to.
func LoadNamed(name string) (*Grammar, error) {
	path, ok := bundledAssets[name]
	if !ok {
		if IsKnownName(name) {
			return nil, &ferrors.Error{
				Kind:    ferrors.KindPathDoesNotExist,
				Message: "grammar-mutator '" + name + "' is a recognized built-in name but has no bundled grammar asset in this build",
			}
		}
		return nil, &ferrors.Error{
			Kind:    ferrors.KindPathDoesNotExist,
			Message: "unknown grammar-mutator name '" + name + "'",
		}
	}
	raw, err := bundledGrammars.ReadFile(path)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.KindPathDoesNotExist, err)
	}
	return Compile(raw)
}

// LoadCustom compiles a grammar from an arbitrary JSON file on disk, for the
// "--grammar-mutator <path-to-json>" form of the flag.
func LoadCustom(path string) (*Grammar, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.KindPathDoesNotExist, err)
	}
	return Compile(raw)
}

// Resolve implements the full --grammar-mutator resolution order: try the
// built-in name table first, then fall back to treating the argument as a
// filesystem path, mirroring GrammarTemplate::from(String)'s catch-all
// Self::Custom(PathBuf::from(rem)) arm.
func Resolve(nameOrPath string) (*Grammar, error) {
	if IsKnownName(nameOrPath) {
		return LoadNamed(nameOrPath)
	}
	return LoadCustom(nameOrPath)
}
