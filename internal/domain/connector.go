package domain

// Connector — источник обучающих данных одного участника федерации.
//
// Каждый коннектор порождает ровно один клиентский узел графа.
// Порядок коннекторов в списке определяет порядок клиентских узлов.
type Connector struct {
	// Link — адрес источника данных (URI, путь, DSN).
	// Передаётся клиентскому узлу как local_data_connector.
	Link string `json:"link"`

	// Region — регион размещения данных.
	// При включённом enforcement становится node selector'ом клиента.
	// Может быть пустым — селектор тогда привязывается с пустым значением.
	Region string `json:"region"`
}
