/*
Package gdrive-writer uploads locally staged CSV tables and files to Google Drive,
keeping the remote documents in sync with a declarative per-item configuration.

gdrive-writer can be used from the command line but is really intended to be run as
a batch step in a data pipeline, with the staged payloads and config.json laid out
in a data directory.

gdrive-writer supports the following commands:

  - authorise, to authorise application access to Google Drive and Google Sheets
  - run, to upload the configured tables and files to Google Drive
  - create-file, to create the remote file for a configured table and print its metadata as JSON
  - get-file, to retrieve a remote file's metadata as JSON
  - version, to display the application version
*/
package gdrivewriter
