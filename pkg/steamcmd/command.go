package steamcmd

import (
	"fmt"
	"strings"
)

// Command accumulates steamcmd directives so that several of them can be run with a single login.
// Every directive occupies a slot.  Slots are never renumbered - removing a slot leaves a hole so that indices returned earlier stay valid.
// The zero value is an empty command.
type Command struct {
	slots []*string
}

// Creates an empty [Command]
func NewCommand() *Command {
	return &Command{}
}

// Appends a fragment to the command and returns the index of its slot
func (c *Command) add(fragment string) int {
	c.slots = append(c.slots, &fragment)
	return len(c.slots) - 1
}

// Sets the install directory used by the directives that follow it.
// Returns the index of the added slot.
func (c *Command) ForceInstallDir(path string) int {
	return c.add(fmt.Sprintf("+force_install_dir \"%s\"", path))
}

// AppUpdateOpts are optional parameters for an app update directive.
type AppUpdateOpts struct {
	Beta         string
	BetaPassword string
	// InstallDir is only honored by [Session.AppUpdate]
	InstallDir string
	Validate   bool
}

// Installs or updates an app.
// Flags are always appended in the order validate, beta, beta password.
// Returns the index of the added slot.
func (c *Command) AppUpdate(appId int, opts AppUpdateOpts) int {
	fragment := fmt.Sprintf("+app_update %d", appId)
	if opts.Validate {
		fragment += " validate"
	}
	if opts.Beta != "" {
		fragment += fmt.Sprintf(" -beta %s", opts.Beta)
	}
	if opts.BetaPassword != "" {
		fragment += fmt.Sprintf(" -betapassword %s", opts.BetaPassword)
	}
	return c.add(fragment)
}

// Downloads (or updates) a workshop item belonging to an app.
// Returns the index of the added slot.
func (c *Command) WorkshopDownloadItem(appId int, workshopId int, validate bool) int {
	fragment := fmt.Sprintf("+workshop_download_item %d %d", appId, workshopId)
	if validate {
		fragment += " validate"
	}
	return c.add(fragment)
}

// Appends an arbitrary fragment verbatim.
// Returns the index of the added slot.
func (c *Command) Custom(text string) int {
	return c.add(text)
}

// Removes the fragment at the given index.
// Returns false if the index is out of range or the slot was already removed.
func (c *Command) Remove(index int) bool {
	if index < 0 || index >= len(c.slots) || c.slots[index] == nil {
		return false
	}
	c.slots[index] = nil
	return true
}

// Returns the number of slots ever assigned, including removed ones
func (c *Command) Len() int {
	return len(c.slots)
}

// Renders the remaining fragments, in insertion order, separated by single spaces
func (c *Command) String() string {
	fragments := []string{}
	for _, slot := range c.slots {
		if slot == nil || *slot == "" {
			continue
		}
		fragments = append(fragments, *slot)
	}
	return strings.Join(fragments, " ")
}
