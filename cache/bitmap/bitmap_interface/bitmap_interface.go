package bitmap_interface

// Bitmap 定长位图
// 位p存放在第p>>3个字节的掩码1<<(p&7)上，Bytes导出的字节序与此一致
type Bitmap interface {
	Set(uint)                   // 将位置p的元素值设置为1
	Test(uint) bool             // 查询位置p的元素
	TestAndSet(uint, bool) bool // 查询位置p，未设置且set为true时置1，返回查询前的值
	Size() uint64               // 位图的字节数
	Reset()                     // 清空bitmap元素
	Clone() Bitmap              // 拷贝该bitmap
	Equal(Bitmap) bool          // 比较和另一个Bitmap是否相等
	Cardinality() uint64        // 已设置值为1的元素个数
	Or(Bitmap) bool             // 按位或入另一个同长度的bitmap，长度不同返回false
	Bytes() []byte              // 导出Size()个字节
}
