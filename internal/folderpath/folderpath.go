// Package folderpath computes the materialized ancestry path stored on folders.
package folderpath

// Root is the path given to folders that have no parent.
const Root = "/"

// Resolve returns the path a child of the folder (parentPath, parentName) receives.
func Resolve(parentPath, parentName string) string {
	if parentPath == Root {
		return Root + parentName
	}
	return parentPath + "/" + parentName
}
