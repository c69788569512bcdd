// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
)

type Id int

const (
	CompilerNotFoundId Id = iota + 1
	UnknownArchitectureId
	UnknownFormatId
	MissingPackageNameId
	CompileFailedId
	PackagingFailedId
	ConfigLoadFailedId
)

type MarkdownMsg string

type Issue struct {
	id    Id          // ID used to lookup the issue
	mdMsg MarkdownMsg // Markdown text that will be rendered
}

func (i *Issue) Id() Id {
	return i.id
}

// Render renders the guidance with the given glamour style ("auto", "dark",
// "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	compilerNotFoundIssue = &Issue{
		id: CompilerNotFoundId,
		mdMsg: `
# No D compiler found!

The packager looks for **gdc** first and then **dmd** on your PATH.

## Things you can try:
- Install GDC (preferred, builds x86 and x64 by default):
~~~
$ sudo apt install gdc
~~~
- Point at a compiler explicitly:
~~~
$ package-linux -c /opt/dmd/bin/dmd dpong-pkg
~~~`,
	}

	unknownArchitectureIssue = &Issue{
		id: UnknownArchitectureId,
		mdMsg: `
# Unsupported architecture!

## Supported architectures:
- **x86**: built with ` + "`-m32`" + `
- **x64**: built with ` + "`-m64`" + `

## Example:
~~~
$ package-linux -a x86 -a x64 dpong-pkg
~~~`,
	}

	unknownFormatIssue = &Issue{
		id: UnknownFormatId,
		mdMsg: `
# Unsupported archive format!

## Supported formats:
- **tgz**: gzip-compressed tarball (default)
- **zip**: deflate-compressed zip archive

## Example:
~~~
$ package-linux -f zip -f tgz dpong-pkg
~~~`,
	}

	missingPackageNameIssue = &Issue{
		id: MissingPackageNameId,
		mdMsg: `
# Missing package name!

The package name becomes the staging directory and the archive file names.

## Example:
~~~
$ package-linux dpong-0.1-linux
~~~`,
	}

	compileFailedIssue = &Issue{
		id: CompileFailedId,
		mdMsg: `
# Compilation failed!

Either the compiler could not build the ` + "`cdc`" + ` build script, or the
build script failed for one of the architectures.

## Things you can try:
- Run the failing command by hand; it is printed right before the failure
- For x86 builds on a 64-bit host, install the 32-bit runtime libraries
- Run with ` + "`--verbose`" + ` to see every command`,
	}

	packagingFailedIssue = &Issue{
		id: PackagingFailedId,
		mdMsg: `
# Packaging failed!

The binaries were built, but assembling or archiving the package failed.
The staging directory has been removed.

## Things you can try:
- Run the packager from the game's source root (it needs doc/, data/, user_data/)
- Remove a leftover directory with the same name as the package
- Check free disk space and write permissions`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Configuration file locations (working directory):
- package-linux.cue
- package-linux.toml

## Example configuration:
~~~cue
compiler: "gdc"
architectures: ["x86", "x64"]
formats: ["zip", "tgz"]
~~~`,
	}

	issues = map[Id]*Issue{
		compilerNotFoundIssue.Id():    compilerNotFoundIssue,
		unknownArchitectureIssue.Id(): unknownArchitectureIssue,
		unknownFormatIssue.Id():       unknownFormatIssue,
		missingPackageNameIssue.Id():  missingPackageNameIssue,
		compileFailedIssue.Id():       compileFailedIssue,
		packagingFailedIssue.Id():     packagingFailedIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
	}
)

func Get(id Id) *Issue {
	return issues[id]
}
