package xerr

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// QuotaExceededError 携带可用/所需字节数, 用于生成用户可读的提示信息
// errors.Is(err, ErrQuotaExceeded) 对该类型成立
type QuotaExceededError struct {
	AvailableBytes int64
	RequiredBytes  int64
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("存储空间不足: 剩余 %s, 需要 %s",
		humanize.IBytes(uint64(e.AvailableBytes)), humanize.IBytes(uint64(e.RequiredBytes)))
}

// Is 使 QuotaExceededError 匹配 ErrQuotaExceeded 哨兵
func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// NewQuotaExceeded 创建配额不足错误
func NewQuotaExceeded(available, required int64) *QuotaExceededError {
	if available < 0 {
		available = 0
	}
	return &QuotaExceededError{AvailableBytes: available, RequiredBytes: required}
}
