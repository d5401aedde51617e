package cli

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort = "Stage directory trees for a build step"
	MsgRootLong  = `stagedir mirrors source trees into build output directories, by copy or by
symlink, and reports every visited path to the build orchestrator so the
step reruns when sources change.

It also gathers directories published by upstream dependencies
(DEP_<DEP>_<KEY>) into this package's staging root, <OUT_DIR>/<links-name>,
and publishes that root under the same key for downstream packages.`
	MsgCopyShort      = "Copy a directory tree into a destination"
	MsgLinkShort      = "Mirror a directory tree with symlinks"
	MsgStageShort     = "Stage directories and dependencies into the staging root"
	MsgDepValueShort  = "Print the value a dependency published under a key"
	MsgTargetDirShort = "Print the build artifact directory"
	MsgVersionShort   = "Print version information"

	// Flags
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagEnvFile  = "Read build variables from a dotenv file (process environment wins)"
	MsgFlagManifest = "Write a TOML or YAML record of everything staged"
	MsgFlagPrefix   = "Directive prefix understood by the build orchestrator"
	MsgFlagConfig   = "Staging plan file (TOML or YAML)"
	MsgFlagKey      = "Key the staging root is published under"
	MsgFlagDir      = "Directory to copy into the staging root (repeatable)"
	MsgFlagDep      = "Dependency to stage under root/<dep> (repeatable)"
	MsgFlagMerge    = "Dependency to merge directly into the root (repeatable)"
	MsgFlagMaxDepth = "Fail instead of walking deeper than this many levels (0 = unbounded)"

	// Output
	MsgVersionFormat = "stagedir version %s\n  commit: %s\n  built:  %s\n"
)
