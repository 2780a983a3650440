package mindcli

import "embed"

// SchemaFS holds one DDL file per table, named <table>.sql.
//
//go:embed schema/*.sql
var SchemaFS embed.FS
