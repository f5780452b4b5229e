package errs

import (
	"path/filepath"
	"runtime"
)

// Assert 检查调用方契约, 失败时以Contract错误panic, 不做恢复.
// 错误描述包含模块名, 文件, 行号, 函数以及失败的表达式.
func Assert(component string, cond bool, expr string) {
	if cond {
		return
	}
	fn := "?"
	pc, file, line, ok := runtime.Caller(1)
	if ok {
		if f := runtime.FuncForPC(pc); f != nil {
			fn = f.Name()
		}
	} else {
		file = "?"
	}
	panic(Contract.Printf("%s: %s:%d: %s: assertion '%s' failed",
		component, filepath.Base(file), line, fn, expr))
}

// IsContract 判断recover得到的值是否为契约错误
func IsContract(v any) bool {
	err, ok := v.(error)
	if !ok {
		return false
	}
	return Contract.Is(WrapError(err))
}
