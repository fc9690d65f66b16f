// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ScriptNotFoundId Id = iota + 1
	ScriptEvalFailedId
	ConfigLoadFailedId
	UnknownPolicyId
	InvalidLocationId
	MissingContextId
	SourceTreeNotFoundId
	OutputWriteFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to look up the issue
	mdMsg    MarkdownMsg // Markdown card rendered to the user
	docLinks []HttpLink  // optional links into the project docs
	extLinks []HttpLink  // optional external links
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	scriptNotFoundIssue = &Issue{
		id: ScriptNotFoundId,
		mdMsg: `
# No packaging script found!

We searched for a packaging script but couldn't find one in the expected locations.

## Search locations (in order of precedence):
1. The --script flag
2. The 'script' field in your config file
3. ./starpack.star in the current directory

## Things you can try:
- Create a starter script in your current directory:
~~~
$ starpack init
~~~

- Or point at an existing script:
~~~
$ starpack build --script packaging/release.star
~~~

## Example script:
~~~python
mod = make_source_module(name = "app", source = "print('hi')")
mod.add_location = "in-memory"
collect(mod)

for res in discover("src"):
    collect(res)
~~~`,
	}

	scriptEvalFailedIssue = &Issue{
		id: ScriptEvalFailedId,
		mdMsg: `
# Script evaluation failed!

Your packaging script raised an error while running.

## Common causes:
- Assigning an attribute a resource value does not support
- Assigning a collection attribute on a resource without a context
- Passing a malformed location string to add_location
- Calling discover() with a path that does not exist

## Things you can try:
- Check the error above for the failing line and column
- Run with verbose mode to see the full backtrace:
~~~
$ starpack --verbose build
~~~

- Stick to the supported collection attributes:
~~~python
mod.add_include = True
mod.add_location = "in-memory"
mod.add_location_fallback = "filesystem-relative:lib"
mod.add_source = False
mod.add_bytecode_optimization_level_zero = True
mod.add_bytecode_optimization_level_one = False
mod.add_bytecode_optimization_level_two = False
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the starpack configuration file.

## Configuration file locations:
- Linux: ~/.config/starpack/config.cue
- macOS: ~/Library/Application Support/starpack/config.cue
- Windows: %APPDATA%\starpack\config.cue
- Project-local: ./starpack.cue

## Things you can try:
- Create a default configuration:
~~~
$ starpack config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/starpack/config.cue
~~~

## Example configuration:
~~~cue
default_policy: "prefer-in-memory"
script: "starpack.star"
output_dir: "dist"
bundle: true

ui: {
  color_scheme: "auto"
  verbose: false
}
~~~`,
	}

	unknownPolicyIssue = &Issue{
		id: UnknownPolicyId,
		mdMsg: `
# Unknown packaging policy!

The policy name you specified is not one of the built-in policies.

## Built-in policies:
- **in-memory-only**: every resource is loaded from memory
- **filesystem-relative-only**: every resource is installed next to the build output
- **prefer-in-memory**: resources load from memory with a filesystem fallback

## Things you can try:
- Inspect the built-in policies and their defaults:
~~~
$ starpack policy show
~~~

- Set the policy in your config file:
~~~cue
default_policy: "prefer-in-memory"
~~~

- Or override it for a single build:
~~~
$ starpack build --policy filesystem-relative-only
~~~`,
	}

	invalidLocationIssue = &Issue{
		id: InvalidLocationId,
		mdMsg: `
# Invalid resource location!

A location string in your script is not in a form starpack understands.

## Valid location forms:
- **in-memory**: load the resource from memory at runtime
- **filesystem-relative:PREFIX**: install the resource under PREFIX, relative to the build output
- **default**: clear a fallback (only add_location_fallback accepts this)

## Things you can try:
- Check the location assignments in your script:
~~~python
mod.add_location = "in-memory"
mod.add_location_fallback = "filesystem-relative:lib"
~~~

- Remember that add_location must stay concrete; only the fallback
  can be cleared with "default" or None:
~~~python
mod.add_location_fallback = None
~~~`,
	}

	missingContextIssue = &Issue{
		id: MissingContextId,
		mdMsg: `
# Resource has no collection context!

Your script assigned a collection attribute on a resource that is not
attached to a collection context.

## Things you can try:
- Build resources through the script builtins so they carry a context:
~~~python
mod = make_source_module(name = "app", source = "print('hi')")
mod.add_include = True
~~~

- Reading a collection attribute on a detached resource returns None;
  use that to guard writes:
~~~python
if mod.add_location != None:
    mod.add_location = "in-memory"
~~~`,
	}

	sourceTreeNotFoundIssue = &Issue{
		id: SourceTreeNotFoundId,
		mdMsg: `
# Source tree not found!

The path handed to discover() does not exist or is not a directory.

## Things you can try:
- Check the path in your script; it resolves relative to the
  directory you run starpack from:
~~~python
for res in discover("src"):
    collect(res)
~~~

- List what a scan of the tree would find:
~~~
$ starpack resources src
~~~`,
	}

	outputWriteFailedIssue = &Issue{
		id: OutputWriteFailedId,
		mdMsg: `
# Failed to write build outputs!

The collected resources could not be written to the output directory.

## Common causes:
- The output directory is not writable
- A resource references a source file that has been moved or deleted
- The disk is full

## Things you can try:
- Check permissions on the output directory
- Point the build somewhere writable:
~~~cue
output_dir: "dist"
~~~

- Verify the files referenced by your script still exist, then re-run:
~~~
$ starpack build
~~~`,
	}

	issues = map[Id]*Issue{
		scriptNotFoundIssue.Id():     scriptNotFoundIssue,
		scriptEvalFailedIssue.Id():   scriptEvalFailedIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		unknownPolicyIssue.Id():      unknownPolicyIssue,
		invalidLocationIssue.Id():    invalidLocationIssue,
		missingContextIssue.Id():     missingContextIssue,
		sourceTreeNotFoundIssue.Id(): sourceTreeNotFoundIssue,
		outputWriteFailedIssue.Id():  outputWriteFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
