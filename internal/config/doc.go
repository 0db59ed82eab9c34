// Package config loads and merges the layered borg-helper configuration.
//
// Config files are searched in a fixed order, lowest to highest precedence:
//
//	<executable dir>/borg-helper.json
//	/etc/borg-helper.json
//	$XDG_CONFIG_HOME/borg-helper.json
//	./borg-helper.json
//
// followed by every entry of the colon-separated BORG_HELPER_CONFIGS
// environment variable (tilde-expanded). Every path is optional.
//
// Files named *.toml or *.yaml/*.yml are decoded with the matching format;
// everything else is JSON:
//
//	{
//	  "borg_binary": "borg",
//	  "aliases": { "backup": "create --stats" },
//	  "repositories": {
//	    "offsite": {
//	      "repository": "ssh://backup@host/./repo",
//	      "passphrase": "secret",
//	      "ssh_key": "~/.ssh/backup",
//	      "aliases": { "backup": "create ::{now} /home" }
//	    }
//	  }
//	}
//
// Later sources win: the binary override replaces, aliases merge with
// per-key overwrite, and repository profiles merge field by field. A field
// set by an earlier source can be overwritten but never unset.
//
// A present-but-malformed file aborts the load (fail fast); files are
// applied atomically, so nothing of a malformed file takes effect.
package config
