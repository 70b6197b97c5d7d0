// Пакет static — встроенные статические файлы UI.
package static

import "embed"

// Files — статические файлы (CSS), встроенные в бинарник.
//
//go:embed css
var Files embed.FS
