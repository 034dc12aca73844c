package dataset

import (
	"fmt"
	"io"
	"os"
)

// copyFile 复制普通文件，目标存在时覆盖
func copyFile(src, dst string) (int64, error) {
	sourceFileStat, err := os.Stat(src)
	if err != nil {
		return 0, err
	}

	if !sourceFileStat.Mode().IsRegular() {
		return 0, fmt.Errorf("%s 不是普通文件", src)
	}

	source, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer source.Close()

	destination, err := os.Create(dst)
	if err != nil {
		return 0, err
	}

	nBytes, err := io.Copy(destination, source)
	if err != nil {
		destination.Close()
		return nBytes, err
	}
	return nBytes, destination.Close()
}

// fileExists 文件存在返回true；其他stat错误原样返回
func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
