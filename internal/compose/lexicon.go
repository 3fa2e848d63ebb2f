package compose

import "github.com/agentx-labs/commitx/internal/changetype"

// verbs maps inflected forms found in hunk text to the imperative used in
// headers.
var verbs = map[string]string{
	"add": "Add", "adds": "Add", "added": "Add", "adding": "Add",
	"implement": "Implement", "implements": "Implement", "implemented": "Implement", "implementing": "Implement",
	"introduce": "Introduce", "introduces": "Introduce", "introduced": "Introduce",
	"support": "Support", "supports": "Support", "supported": "Support",
	"handle": "Handle", "handles": "Handle", "handled": "Handle", "handling": "Handle",
	"fix": "Fix", "fixes": "Fix", "fixed": "Fix", "fixing": "Fix",
	"correct": "Correct", "corrects": "Correct", "corrected": "Correct",
	"resolve": "Resolve", "resolves": "Resolve", "resolved": "Resolve",
	"prevent": "Prevent", "prevents": "Prevent", "prevented": "Prevent",
	"remove": "Remove", "removes": "Remove", "removed": "Remove", "removing": "Remove",
	"delete": "Remove", "deletes": "Remove", "deleted": "Remove",
	"drop": "Drop", "drops": "Drop", "dropped": "Drop",
	"update": "Update", "updates": "Update", "updated": "Update", "updating": "Update",
	"document": "Document", "documents": "Document", "documented": "Document",
	"clarify": "Clarify", "clarifies": "Clarify", "clarified": "Clarify",
	"format": "Format", "formats": "Format", "formatted": "Format",
	"reformat": "Reformat", "reformatted": "Reformat",
	"lint":     "Lint",
	"refactor": "Refactor", "refactors": "Refactor", "refactored": "Refactor",
	"rename": "Rename", "renames": "Rename", "renamed": "Rename",
	"extract": "Extract", "extracts": "Extract", "extracted": "Extract",
	"simplify": "Simplify", "simplifies": "Simplify", "simplified": "Simplify",
	"restructure": "Restructure", "restructured": "Restructure",
	"move": "Move", "moves": "Move", "moved": "Move",
	"optimize": "Optimize", "optimizes": "Optimize", "optimized": "Optimize",
	"optimise": "Optimize", "optimised": "Optimize",
	"improve": "Improve", "improves": "Improve", "improved": "Improve",
	"cache": "Cache", "caches": "Cache", "cached": "Cache",
	"test": "Test", "tests": "Test", "tested": "Test",
	"cover": "Cover", "covers": "Cover", "covered": "Cover",
	"bump": "Bump", "bumps": "Bump", "bumped": "Bump",
	"upgrade": "Upgrade", "upgrades": "Upgrade", "upgraded": "Upgrade",
	"downgrade": "Downgrade", "downgrades": "Downgrade", "downgraded": "Downgrade",
	"configure": "Configure", "configures": "Configure", "configured": "Configure",
	"sanitize": "Sanitize", "sanitizes": "Sanitize", "sanitized": "Sanitize",
	"sanitise": "Sanitize", "sanitised": "Sanitize",
	"secure": "Secure", "secures": "Secure", "secured": "Secure",
	"harden": "Harden", "hardens": "Harden", "hardened": "Harden",
	"patch": "Patch", "patches": "Patch", "patched": "Patch",
	"revert": "Revert", "reverts": "Revert", "reverted": "Revert",
	"migrate": "Migrate", "migrates": "Migrate", "migrated": "Migrate",
	"change": "Change", "changes": "Change", "changed": "Change",
	"replace": "Replace", "replaces": "Replace", "replaced": "Replace",
}

// verbRule lists the verbs a type accepts, most preferred first, and the
// verb used when the hunk text offers none.
type verbRule struct {
	allowed []string
	def     string
}

var verbRules = map[changetype.Type]verbRule{
	changetype.Feat:                {[]string{"Add", "Implement", "Introduce", "Support", "Handle"}, "Add"},
	changetype.Fix:                 {[]string{"Fix", "Correct", "Resolve", "Prevent", "Handle"}, "Fix"},
	changetype.Docs:                {[]string{"Document", "Update", "Clarify", "Add", "Fix", "Remove"}, "Update"},
	changetype.Style:               {[]string{"Format", "Reformat", "Lint"}, "Format"},
	changetype.Refactor:            {[]string{"Refactor", "Rename", "Extract", "Simplify", "Restructure", "Move"}, "Refactor"},
	changetype.Perf:                {[]string{"Optimize", "Improve", "Cache"}, "Improve"},
	changetype.Test:                {[]string{"Add", "Test", "Cover", "Fix", "Update"}, "Update"},
	changetype.Chore:               {[]string{"Update", "Configure", "Bump", "Add", "Remove"}, "Update"},
	changetype.CI:                  {[]string{"Update", "Configure", "Add", "Fix"}, "Update"},
	changetype.Security:            {[]string{"Fix", "Sanitize", "Secure", "Harden", "Patch"}, "Fix"},
	changetype.Move:                {[]string{"Move", "Rename"}, "Move"},
	changetype.Remove:              {[]string{"Remove", "Drop"}, "Remove"},
	changetype.Packages:            {[]string{"Update", "Bump"}, "Update"},
	changetype.DependencyAdd:       {[]string{"Add"}, "Add"},
	changetype.DependencyRemove:    {[]string{"Remove", "Drop"}, "Remove"},
	changetype.DependencyUpgrade:   {[]string{"Upgrade", "Bump"}, "Upgrade"},
	changetype.DependencyDowngrade: {[]string{"Downgrade"}, "Downgrade"},
	changetype.Breaking:            {[]string{"Change", "Remove", "Drop", "Rename", "Replace"}, "Change"},
	changetype.Revert:              {[]string{"Revert"}, "Revert"},
	changetype.Database:            {[]string{"Migrate", "Add", "Update", "Drop"}, "Migrate"},
	changetype.Assets:              {[]string{"Add", "Update", "Optimize", "Remove"}, "Update"},
	changetype.Typo:                {[]string{"Fix", "Correct"}, "Fix"},
}

// stopWords never become a subject.
var stopWords = map[string]bool{
	"src": true, "lib": true, "libs": true, "internal": true, "pkg": true, "cmd": true,
	"app": true, "apps": true, "main": true, "index": true, "mod": true, "sum": true,
	"init": true, "util": true, "utils": true, "common": true, "core": true, "misc": true,
	"go": true, "js": true, "jsx": true, "ts": true, "tsx": true, "mjs": true, "cjs": true,
	"py": true, "rb": true, "rs": true, "java": true, "kt": true, "cs": true, "cpp": true,
	"c": true, "h": true, "hpp": true, "php": true, "swift": true, "scala": true,
	"md": true, "mdx": true, "rst": true, "txt": true, "json": true, "yaml": true, "yml": true,
	"toml": true, "xml": true, "lock": true, "css": true, "scss": true, "less": true,
	"html": true, "sql": true, "sh": true, "bin": true, "dat": true, "png": true, "svg": true,
	"test": true, "tests": true, "spec": true, "specs": true, "file": true, "files": true,
	"the": true, "a": true, "an": true, "and": true, "or": true, "of": true, "to": true,
	"in": true, "on": true, "for": true, "with": true, "is": true, "it": true, "new": true,
	"old": true, "tmp": true, "github": true, "workflows": true,
	"package": true, "import": true, "func": true, "return": true, "nil": true, "null": true,
	"const": true, "var": true, "let": true, "def": true, "class": true, "public": true,
	"private": true, "static": true, "void": true, "true": true, "false": true, "if": true,
	"else": true, "err": true, "self": true, "this": true, "string": true, "int": true,
}
