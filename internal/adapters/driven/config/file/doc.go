// Package file provides file-based implementations of driven port interfaces.
//
// ConfigStore keeps settings and the logged-in session in config.toml under
// the docchat home directory (~/.docchat, or $DOCCHAT_HOME when set).
package file
