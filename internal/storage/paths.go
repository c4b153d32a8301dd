package storage

const (
	Path      = "/var/mongovault/data"
	BackupDir = Path + "/backups"
)
