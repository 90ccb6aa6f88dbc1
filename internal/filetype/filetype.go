// Package filetype maps repository paths onto coarse file types.
package filetype

import (
	"path/filepath"
	"strings"

	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/schema"
)

var sourceExtensions = map[string]struct{}{
	".go": {}, ".py": {}, ".js": {}, ".jsx": {}, ".ts": {}, ".tsx": {},
	".java": {}, ".c": {}, ".cpp": {}, ".cc": {}, ".cxx": {}, ".h": {},
	".hpp": {}, ".hh": {}, ".cs": {}, ".rb": {}, ".php": {}, ".rs": {},
	".swift": {}, ".kt": {}, ".scala": {}, ".sh": {}, ".bash": {},
	".sql": {}, ".r": {}, ".m": {}, ".pl": {}, ".pm": {}, ".lua": {},
	".dart": {}, ".ex": {}, ".exs": {}, ".clj": {}, ".fs": {}, ".ml": {},
	".hs": {}, ".el": {}, ".lisp": {}, ".f": {}, ".f90": {}, ".asm": {},
	".s": {}, ".y": {}, ".l": {}, ".tcl": {}, ".vb": {}, ".groovy": {},
}

// Documentation formats. Some of them are binary.
var docExtensions = map[string]struct{}{
	".txt": {}, ".md": {}, ".markdown": {}, ".rst": {}, ".adoc": {},
	".html": {}, ".htm": {}, ".sgml": {}, ".docbook": {}, ".tex": {},
	".texi": {}, ".texinfo": {}, ".man": {}, ".1": {}, ".3": {},
	".pdf": {}, ".ps": {}, ".rtf": {}, ".doc": {}, ".docx": {}, ".odt": {},
}

var translationExtensions = map[string]struct{}{
	".po": {}, ".pot": {}, ".mo": {}, ".gmo": {}, ".xlf": {}, ".xliff": {},
}

var binaryExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".bmp": {}, ".ico": {},
	".tif": {}, ".tiff": {}, ".webp": {}, ".psd": {}, ".xcf": {},
	".zip": {}, ".gz": {}, ".tgz": {}, ".bz2": {}, ".xz": {}, ".7z": {},
	".tar": {}, ".rar": {}, ".jar": {}, ".war": {}, ".class": {},
	".o": {}, ".a": {}, ".so": {}, ".dll": {}, ".dylib": {}, ".exe": {},
	".bin": {}, ".pyc": {}, ".wasm": {}, ".ttf": {}, ".otf": {},
	".woff": {}, ".woff2": {}, ".mp3": {}, ".mp4": {}, ".wav": {},
	".ogg": {}, ".avi": {}, ".mov": {}, ".db": {}, ".sqlite": {},
}

// Binary formats that still classify as documentation or translation.
var nonTextExtensions = map[string]struct{}{
	".pdf": {}, ".ps": {}, ".doc": {}, ".docx": {}, ".odt": {}, ".rtf": {},
	".mo": {}, ".gmo": {},
}

// Well-known documentation files without a documentation extension.
var docNames = map[string]struct{}{
	"readme": {}, "changelog": {}, "changes": {}, "news": {}, "authors": {},
	"copying": {}, "license": {}, "install": {}, "todo": {}, "thanks": {},
}

// Classifier implements contract.FileClassifier using file names only.
type Classifier struct{}

var _ contract.FileClassifier = Classifier{} // Compile-time check

// New returns the default classifier.
func New() Classifier {
	return Classifier{}
}

// Classify returns the file type of name.
func (Classifier) Classify(name string) schema.FileType {
	base := strings.ToLower(filepath.Base(name))
	ext := filepath.Ext(base)

	if isTranslationPath(name, ext) {
		return schema.TranslationFile
	}
	if _, ok := sourceExtensions[ext]; ok {
		return schema.SourceFile
	}
	if _, ok := docExtensions[ext]; ok {
		return schema.DocFile
	}
	if _, ok := docNames[strings.TrimSuffix(base, ext)]; ok && ext == "" {
		return schema.DocFile
	}
	if _, ok := binaryExtensions[ext]; ok {
		return schema.BinaryFile
	}
	return schema.OtherFile
}

// IsText reports whether line-level diffs are meaningful for name.
// Unknown extensions are treated as text; git itself diffs them.
func (c Classifier) IsText(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := nonTextExtensions[ext]; ok {
		return false
	}
	return c.Classify(name) != schema.BinaryFile
}

// isTranslationPath matches gettext catalogs and files kept under a
// translation directory such as po/ or locale/.
func isTranslationPath(name, ext string) bool {
	if _, ok := translationExtensions[ext]; ok {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(filepath.Dir(name)), "/") {
		switch strings.ToLower(part) {
		case "po", "locale", "locales", "i18n", "translations":
			return ext != "" && !isSource(ext)
		}
	}
	return false
}

func isSource(ext string) bool {
	_, ok := sourceExtensions[ext]
	return ok
}
