package commands

const (
	_etc = "/usr/local/etc/com.github.gdrive-writer"
	_var = "/usr/local/var/com.github.gdrive-writer"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"
)
