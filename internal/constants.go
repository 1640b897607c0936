package internal

const (
	// 配置文件默认路径
	DefaultConfigDir = "~/.declutter"

	// 日志文件默认路径
	DefaultLogFile = "~/.declutter/declutter_log.txt"

	// 日志文件首行
	LogHeader = "--- Declutter Log ---"

	// 判定为旧文件的默认天数
	DefaultDaysOld = 30

	// 无扩展名文件的分类
	OthersCategory = "others"

	// 新建目录的权限
	DirPerm = 0755
)
