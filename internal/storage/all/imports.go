// Package all wires all built-in storage backends into the storage factory.
//
// Importing it (even as a blank import) runs the init functions of each
// concrete backend, which register their factories with the storage package:
//
//   - "cldf"     (phonotactics/internal/storage/csvdir)
//   - "s3"       (phonotactics/internal/storage/s3)
//   - "sqlite"   (phonotactics/internal/storage/sqlite)
//   - "postgres" (phonotactics/internal/storage/postgres)
//   - "mssql"    (phonotactics/internal/storage/mssql)
package all

import (
	_ "phonotactics/internal/storage/csvdir"
	_ "phonotactics/internal/storage/mssql"
	_ "phonotactics/internal/storage/postgres"
	_ "phonotactics/internal/storage/s3"
	_ "phonotactics/internal/storage/sqlite"
)
