package xerr

// 定义了统一的业务错误码
const (
	SuccessCode = 20000 // 通用成功码

	// --- 客户端请求错误系列 (400xx) ---
	InvalidParamsCode    = 40000 // 无效的请求参数
	InvalidOperationCode = 40001 // 非法操作(自分享/空文件/负配额等)
	QuotaExceededCode    = 40002 // 存储配额不足
	FileNameInvalidCode  = 40003 // 文件名无效

	// --- 认证错误系列 (401xx) ---
	UnauthorizedCode       = 40100 // 通用未授权
	TokenInvalidCode       = 40101 // Token 无效或过期
	InvalidCredentialsCode = 40102 // 邮箱或密码错误

	// --- 权限错误系列 (403xx) ---
	ForbiddenCode    = 40300 // 通用无权限
	AccessDeniedCode = 40301 // 所有权/分享检查未通过

	// --- 资源未找到错误系列 (404xx) ---
	NotFoundCode       = 40400 // 通用资源未找到
	UserNotFoundCode   = 40401 // 用户不存在
	FileNotFoundCode   = 40402 // 文件不存在
	FolderNotFoundCode = 40403 // 文件夹不存在
	ShareNotFoundCode  = 40404 // 分享不存在或已过期

	// --- 业务逻辑冲突系列 (409xx) ---
	EmailAlreadyExistsCode     = 40900 // 邮箱已被注册
	EmployeeIDAlreadyInUseCode = 40901 // 工号已被注册
	FolderAlreadyExistsCode    = 40902 // 同级已存在同名文件夹

	// --- 服务器内部错误系列 (500xx) ---
	InternalServerErrorCode = 50000 // 服务器内部通用错误
	PersistenceErrorCode    = 50001 // 元数据事务失败
	StorageIOErrorCode      = 50002 // 磁盘读写失败
)
