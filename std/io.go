package std

import (
	"os"

	"github.com/rill-lang/rill/errs"
	"github.com/rill-lang/rill/values"
)

// ioBuiltins implements whole-file read(path)/write(content, path),
// grounded on original_source/py's builtin_read/builtin_write. Per
// spec.md §5, the file handle is fully scoped to the call and released
// before it returns — os.ReadFile/os.WriteFile already have that shape,
// so no persistent handle value is ever exposed to script code (unlike
// go-mix's own file/file.go FileObject, which this repo drops; see
// DESIGN.md).
func ioBuiltins() []entry {
	return []entry{
		{"read", builtinRead},
		{"write", builtinWrite},
	}
}

func builtinRead(_ Runtime, args []values.Value) (values.Value, error) {
	if err := arity("read", args, 1); err != nil {
		return nil, err
	}
	path, err := asString("read", args[0])
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.New(errs.IO, "error reading file '%s': %v", path, err)
	}
	return values.StringVal{Value: string(data)}, nil
}

func builtinWrite(_ Runtime, args []values.Value) (values.Value, error) {
	if err := arity("write", args, 2); err != nil {
		return nil, err
	}
	path, err := asString("write", args[1])
	if err != nil {
		return nil, err
	}
	content := args[0].String()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, errs.New(errs.IO, "error writing to file '%s': %v", path, err)
	}
	return values.Null{}, nil
}
