package commands

const (
	_etc = "/usr/local/etc/gdrive-writer"
	_var = "/usr/local/var/gdrive-writer"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"
)
