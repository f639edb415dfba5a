package ecs

import "reflect"

// 泛型查询 API
// 相比反射版本的 GetEntitiesWith，泛型版本避免了调用方手写
// reflect.TypeOf，并在热路径（每帧查询）上减少接口装箱开销

// typeOf 返回组件指针类型 T 的 reflect.Type
func typeOf[T any]() reflect.Type {
	var zero T
	return reflect.TypeOf(zero)
}

// GetComponent 获取实体的特定类型组件（泛型版本）
// T 必须是组件的指针类型，如 *components.PlaybackComponent
func GetComponent[T any](em *EntityManager, id EntityID) (T, bool) {
	var zero T
	comp, ok := em.GetComponent(id, typeOf[T]())
	if !ok {
		return zero, false
	}
	typed, ok := comp.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// AddComponent 为实体添加组件（泛型版本）
func AddComponent[T any](em *EntityManager, id EntityID, component T) {
	em.AddComponent(id, component)
}

// RemoveComponent 从实体移除指定类型的组件（泛型版本）
func RemoveComponent[T any](em *EntityManager, id EntityID) {
	em.RemoveComponent(id, typeOf[T]())
}

// HasComponent 检查实体是否拥有特定类型组件（泛型版本）
func HasComponent[T any](em *EntityManager, id EntityID) bool {
	return em.HasComponent(id, typeOf[T]())
}

// GetEntitiesWith1 查询拥有组件类型 T1 的所有实体
func GetEntitiesWith1[T1 any](em *EntityManager) []EntityID {
	t1 := typeOf[T1]()
	result := make([]EntityID, 0)
	for id, compMap := range em.components {
		if _, ok := compMap[t1]; ok {
			result = append(result, id)
		}
	}
	return result
}

// GetEntitiesWith2 查询同时拥有组件类型 T1、T2 的所有实体
func GetEntitiesWith2[T1, T2 any](em *EntityManager) []EntityID {
	t1, t2 := typeOf[T1](), typeOf[T2]()
	result := make([]EntityID, 0)
	for id, compMap := range em.components {
		if _, ok := compMap[t1]; !ok {
			continue
		}
		if _, ok := compMap[t2]; !ok {
			continue
		}
		result = append(result, id)
	}
	return result
}

// GetEntitiesWith3 查询同时拥有组件类型 T1、T2、T3 的所有实体
func GetEntitiesWith3[T1, T2, T3 any](em *EntityManager) []EntityID {
	t1, t2, t3 := typeOf[T1](), typeOf[T2](), typeOf[T3]()
	result := make([]EntityID, 0)
	for id, compMap := range em.components {
		if _, ok := compMap[t1]; !ok {
			continue
		}
		if _, ok := compMap[t2]; !ok {
			continue
		}
		if _, ok := compMap[t3]; !ok {
			continue
		}
		result = append(result, id)
	}
	return result
}
