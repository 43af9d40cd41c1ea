package xerr

import "errors"

var (
	// 通用错误
	ErrInternalServer = errors.New("服务器内部错误")

	// 客户端请求错误
	ErrInvalidParams    = errors.New("无效的请求参数")
	ErrInvalidOperation = errors.New("非法操作")
	ErrFileNameInvalid  = errors.New("文件名不能为空或包含非法字符")
	ErrQuotaExceeded    = errors.New("存储空间不足")

	// 认证错误
	ErrUnauthorized       = errors.New("用户未授权")
	ErrTokenInvalid       = errors.New("认证 Token 无效或已过期")
	ErrInvalidCredentials = errors.New("邮箱或密码不正确")

	// 权限错误
	ErrAccessDenied = errors.New("您没有操作此资源的权限")

	// 资源未找到错误
	ErrUserNotFound   = errors.New("用户不存在")
	ErrFileNotFound   = errors.New("文件不存在")
	ErrFolderNotFound = errors.New("文件夹不存在")
	ErrShareNotFound  = errors.New("分享不存在或已失效")

	// 业务逻辑冲突
	ErrEmailAlreadyExists     = errors.New("邮箱已被注册")
	ErrEmployeeIDAlreadyInUse = errors.New("工号已被注册")
	ErrFolderAlreadyExists    = errors.New("同级目录下已存在同名文件夹")

	// 磁盘与元数据存储错误
	ErrStorageIO   = errors.New("磁盘操作失败")
	ErrPersistence = errors.New("元数据存储操作失败")
)
