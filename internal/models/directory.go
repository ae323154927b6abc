package models

// DirectoryEntryDetail is the normalized metadata record for one filesystem
// entry. Size and LastModified are always present and default to 0.
type DirectoryEntryDetail struct {
	Name         string `json:"name" yaml:"name"`
	Path         string `json:"path" yaml:"path"`
	IsDirectory  bool   `json:"isDirectory" yaml:"isDirectory"`
	Size         int64  `json:"size" yaml:"size"`
	LastModified int64  `json:"lastModified" yaml:"lastModified"`
}

// DirectoryRequest carries the arguments of hasPermission, requestPermission,
// listDirectory and getDirectoryDetails.
type DirectoryRequest struct {
	DirectoryPath string `mapstructure:"directoryPath"`
	// Recursive walks all descendants instead of immediate children.
	Recursive bool `mapstructure:"recursive"`
	// Strict, when set, overrides the configured enumeration policy.
	Strict *bool `mapstructure:"strict"`
}

// WriteFileRequest carries the arguments of writeFile.
type WriteFileRequest struct {
	DirectoryPath string `mapstructure:"directoryPath"`
	FileName      string `mapstructure:"fileName"`
	Content       string `mapstructure:"content"`
}

// ReadFileRequest carries the arguments of readFile.
type ReadFileRequest struct {
	FilePath string `mapstructure:"filePath"`
}
